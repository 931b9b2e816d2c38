// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "github.com/calyptra/studio-go/internal/model"

// Capability names a single permission bit checked by the gate.
type Capability string

// Capabilities the gate can require.
const (
	CapViewProjects   Capability = "view_projects"
	CapCreateProjects Capability = "create_projects"
	CapEditProjects   Capability = "edit_projects"
	CapDeleteProjects Capability = "delete_projects"
	CapViewUsers      Capability = "view_users"
	CapManageUsers    Capability = "manage_users"
	CapViewAnalytics  Capability = "view_analytics"
	CapAccessSettings Capability = "access_settings"
)

// authorize resolves the caller's role to its capability set and checks the
// requested capability. Returns ErrUnauthorized on denial, before any query
// is constructed or executed, so denials have no partial side effects.
func authorize(role model.Role, cap Capability) error {
	caps := model.CapabilitiesFor(role)

	allowed := false
	switch cap {
	case CapViewProjects:
		allowed = caps.CanViewProjects
	case CapCreateProjects:
		allowed = caps.CanCreateProjects
	case CapEditProjects:
		allowed = caps.CanEditProjects
	case CapDeleteProjects:
		allowed = caps.CanDeleteProjects
	case CapViewUsers:
		allowed = caps.CanViewUsers
	case CapManageUsers:
		allowed = caps.CanManageUsers
	case CapViewAnalytics:
		allowed = caps.CanViewAnalytics
	case CapAccessSettings:
		allowed = caps.CanAccessSettings
	}

	if !allowed {
		return ErrUnauthorized
	}
	return nil
}
