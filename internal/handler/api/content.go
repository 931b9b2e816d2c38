// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calyptra/studio-go/internal/content"
)

// Content handles GET /content/*, proxying blog, portfolio, and career
// content from the external CMS. Responses pass through unmodified.
func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	if h.content == nil {
		WriteNotFound(w, "Content proxy is not configured")
		return
	}

	path := chi.URLParam(r, "*")
	body, contentType, err := h.content.Fetch(r.Context(), path, r.URL.RawQuery)
	if err != nil {
		if errors.Is(err, content.ErrUpstream) {
			WriteError(w, http.StatusBadGateway, "upstream_error", "Content service unavailable", nil)
			return
		}
		slog.Error("content fetch failed", "error", err, "path", path)
		WriteInternalError(w, "Failed to fetch content")
		return
	}

	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(body)
}
