// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calyptra/studio-go/internal/middleware"
	"github.com/calyptra/studio-go/internal/model"
	"github.com/calyptra/studio-go/internal/render"
	"github.com/calyptra/studio-go/internal/service"
)

// ProjectDetail is a project plus the rendered overview, returned on
// single-project reads when render=html is requested.
type ProjectDetail struct {
	model.Project
	OverviewHTML string `json:"overview_html,omitempty"`
}

// ListProjects handles GET /projects. Filter facets and search come from
// query parameters; absent facets match everything.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ProjectFilter{
		Search:      q.Get("search"),
		Status:      q.Get("status"),
		ImpactArea:  q.Get("impact_area"),
		ServiceType: q.Get("service_type"),
	}

	projects, err := h.projects.List(r.Context(), middleware.GetRole(r), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, projects, &Meta{Total: len(projects)})
}

// GetProject handles GET /projects/{slug}. With render=html the markdown
// overview is additionally returned as sanitized HTML.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	project, err := h.projects.Get(r.Context(), middleware.GetRole(r), slug)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	detail := ProjectDetail{Project: project}
	if r.URL.Query().Get("render") == "html" && project.ProjectOverview != "" {
		html, err := render.Markdown(project.ProjectOverview)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		detail.OverviewHTML = html
	}

	WriteSuccess(w, detail, nil)
}

// CreateProject handles POST /projects.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var in service.CreateProjectInput
	if !decodeJSON(w, r, &in) {
		return
	}

	project, err := h.projects.Create(r.Context(), middleware.GetRole(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteCreated(w, project)
}

// UpdateProject handles PATCH /projects/{slug}. Only fields present in the
// body are changed.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var upd model.ProjectUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}

	project, err := h.projects.Update(r.Context(), middleware.GetRole(r), slug, upd)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, project, nil)
}

// DeleteProject handles DELETE /projects/{slug}.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := h.projects.Delete(r.Context(), middleware.GetRole(r), slug); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
