// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/calyptra/studio-go/internal/middleware"
	"github.com/calyptra/studio-go/internal/model"
	"github.com/calyptra/studio-go/internal/service"
)

// parseIDParam parses the {id} URL parameter.
func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// ListUsers handles GET /users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context(), middleware.GetRole(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, users, &Meta{Total: len(users)})
}

// GetUser handles GET /users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid user ID")
		return
	}

	user, err := h.users.Get(r.Context(), middleware.GetRole(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, user, nil)
}

// CreateUser handles POST /users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in service.CreateUserInput
	if !decodeJSON(w, r, &in) {
		return
	}

	user, err := h.users.Create(r.Context(), middleware.GetRole(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteCreated(w, user)
}

// UpdateUser handles PATCH /users/{id}. Only fields present in the body
// are changed; a present password is re-hashed.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid user ID")
		return
	}

	var upd model.UserUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}

	user, err := h.users.Update(r.Context(), middleware.GetRole(r), id, upd)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, user, nil)
}

// DeleteUser handles DELETE /users/{id}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid user ID")
		return
	}

	if err := h.users.Delete(r.Context(), middleware.GetRole(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
