// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including Project, User, PageVisit, and the role-capability
// matrix that drives every authorization decision.
package model

// Role is a closed enumeration of user roles. All authorization decisions
// route through CapabilitiesFor; no call site compares role strings directly.
type Role string

// User roles
const (
	RoleSuperAdmin Role = "Super Admin"
	RoleAdmin      Role = "Admin"
	RoleEditor     Role = "Editor"
	RoleViewer     Role = "Viewer"
)

// ValidRoles contains all valid user roles.
var ValidRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleEditor, RoleViewer}

// IsValidRole checks if a role is one of the defined roles.
func IsValidRole(role Role) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// CapabilitySet holds the named permission bits granted to a role.
type CapabilitySet struct {
	CanViewProjects   bool `json:"can_view_projects"`
	CanCreateProjects bool `json:"can_create_projects"`
	CanEditProjects   bool `json:"can_edit_projects"`
	CanDeleteProjects bool `json:"can_delete_projects"`
	CanViewUsers      bool `json:"can_view_users"`
	CanManageUsers    bool `json:"can_manage_users"`
	CanViewAnalytics  bool `json:"can_view_analytics"`
	CanAccessSettings bool `json:"can_access_settings"`
}

// CapabilitiesFor maps a role to its capability set. The mapping is pure
// data, recomputed on every check. An unrecognized role yields the zero
// (all-deny) set so that unauthorized-by-default is the failure mode.
func CapabilitiesFor(role Role) CapabilitySet {
	switch role {
	case RoleSuperAdmin:
		return CapabilitySet{
			CanViewProjects:   true,
			CanCreateProjects: true,
			CanEditProjects:   true,
			CanDeleteProjects: true,
			CanViewUsers:      true,
			CanManageUsers:    true,
			CanViewAnalytics:  true,
			CanAccessSettings: true,
		}
	case RoleAdmin:
		return CapabilitySet{
			CanViewProjects:   true,
			CanCreateProjects: true,
			CanEditProjects:   true,
			CanDeleteProjects: true,
			CanViewUsers:      true,
			CanManageUsers:    true,
			CanViewAnalytics:  true,
		}
	case RoleEditor:
		return CapabilitySet{
			CanViewProjects:   true,
			CanCreateProjects: true,
			CanEditProjects:   true,
			CanViewAnalytics:  true,
		}
	case RoleViewer:
		return CapabilitySet{
			CanViewProjects:  true,
			CanViewAnalytics: true,
		}
	default:
		return CapabilitySet{}
	}
}
