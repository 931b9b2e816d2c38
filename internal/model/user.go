// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"net/mail"
	"strings"
	"time"
)

// User statuses
const (
	UserStatusActive   = "Active"
	UserStatusInactive = "Inactive"
)

// ProtectedUsername is the seed account that can never be deleted.
const ProtectedUsername = "superadmin"

// ValidUserStatuses contains all valid user statuses.
var ValidUserStatuses = []string{UserStatusActive, UserStatusInactive}

// IsValidUserStatus checks if a status is one of the defined literals.
func IsValidUserStatus(status string) bool {
	for _, s := range ValidUserStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidEmail checks an address against the basic local@domain.tld shape.
func IsValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	// require a dotted domain; mail.ParseAddress accepts bare hostnames
	return strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".")
}

// User represents a dashboard user.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         Role      `json:"role"`
	Status       string    `json:"status"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsProtected returns true for the seed account that carries irrevocable
// existence guarantees.
func (u *User) IsProtected() bool {
	return u.Username == ProtectedUsername
}

// Capabilities returns the capability set for the user's role.
func (u *User) Capabilities() CapabilitySet {
	return CapabilitiesFor(u.Role)
}

// UserUpdate is a partial-update field set for a user. Password, when set
// and non-empty, is re-hashed and replaces the stored hash.
type UserUpdate struct {
	Name     Field[string] `json:"name"`
	Username Field[string] `json:"username"`
	Email    Field[string] `json:"email"`
	Password Field[string] `json:"password"`
	Role     Field[Role]   `json:"role"`
	Status   Field[string] `json:"status"`
	Avatar   Field[string] `json:"avatar"`
}
