// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestCapabilitiesForSuperAdmin(t *testing.T) {
	caps := CapabilitiesFor(RoleSuperAdmin)
	if caps != (CapabilitySet{
		CanViewProjects:   true,
		CanCreateProjects: true,
		CanEditProjects:   true,
		CanDeleteProjects: true,
		CanViewUsers:      true,
		CanManageUsers:    true,
		CanViewAnalytics:  true,
		CanAccessSettings: true,
	}) {
		t.Errorf("Super Admin capabilities = %+v, want all granted", caps)
	}
}

func TestCapabilitiesForAdmin(t *testing.T) {
	caps := CapabilitiesFor(RoleAdmin)
	if caps.CanAccessSettings {
		t.Error("Admin must not have settings access")
	}
	if !caps.CanManageUsers || !caps.CanDeleteProjects {
		t.Errorf("Admin capabilities = %+v, want full management minus settings", caps)
	}
}

func TestCapabilitiesForEditor(t *testing.T) {
	caps := CapabilitiesFor(RoleEditor)
	if !caps.CanViewProjects || !caps.CanCreateProjects || !caps.CanEditProjects || !caps.CanViewAnalytics {
		t.Errorf("Editor missing expected grants: %+v", caps)
	}
	if caps.CanDeleteProjects {
		t.Error("Editor must not delete projects")
	}
	if caps.CanViewUsers || caps.CanManageUsers {
		t.Error("Editor must not see or manage users")
	}
}

func TestCapabilitiesForViewer(t *testing.T) {
	caps := CapabilitiesFor(RoleViewer)
	want := CapabilitySet{CanViewProjects: true, CanViewAnalytics: true}
	if caps != want {
		t.Errorf("Viewer capabilities = %+v, want %+v", caps, want)
	}
}

func TestCapabilitiesForUnknownRoleDeniesEverything(t *testing.T) {
	for _, role := range []Role{"", "root", "SUPER ADMIN", "admin"} {
		if caps := CapabilitiesFor(role); caps != (CapabilitySet{}) {
			t.Errorf("CapabilitiesFor(%q) = %+v, want zero set", role, caps)
		}
	}
}

func TestCapabilitiesTotality(t *testing.T) {
	// Every valid role resolves to a defined set without special cases at
	// call sites.
	for _, role := range ValidRoles {
		caps := CapabilitiesFor(role)
		if !caps.CanViewProjects {
			t.Errorf("role %q cannot view projects; every defined role can", role)
		}
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range ValidRoles {
		if !IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = false, want true", role)
		}
	}
	for _, role := range []Role{"", "Owner", "super admin"} {
		if IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = true, want false", role)
		}
	}
}
