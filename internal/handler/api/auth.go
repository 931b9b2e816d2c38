// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"

	"github.com/calyptra/studio-go/internal/middleware"
	"github.com/calyptra/studio-go/internal/model"
)

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionUser is the authenticated-user payload returned by login and /auth/me.
// It carries the capability set so the dashboard can hide controls the
// caller's role does not grant (the server re-checks every call regardless).
type SessionUser struct {
	model.User
	Capabilities model.CapabilitySet `json:"capabilities"`
}

// Login handles POST /auth/login. A successful login rotates the session
// token before associating it with the user.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteBadRequest(w, "Username and password are required")
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		// Uniform response for unknown user, wrong password, and
		// inactive account.
		slog.Warn("login failed",
			"username", req.Username,
			"remote_addr", middleware.GetClientIP(r),
		)
		WriteUnauthorized(w, "Invalid credentials")
		return
	}

	// Rotate the session token on privilege change to prevent fixation.
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		WriteInternalError(w, "Failed to create session")
		return
	}
	h.sessions.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	slog.Info("user logged in", "user_id", user.ID, "username", user.Username)
	WriteSuccess(w, SessionUser{User: user, Capabilities: user.Capabilities()}, nil)
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if err := h.sessions.Destroy(r.Context()); err != nil {
		WriteInternalError(w, "Failed to destroy session")
		return
	}
	if userID != 0 {
		slog.Info("user logged out", "user_id", userID)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me, returning the authenticated user and the
// capability set of their role.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}
	WriteSuccess(w, SessionUser{User: *user, Capabilities: user.Capabilities()}, nil)
}
