// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/calyptra/studio-go/internal/middleware"
)

// Analytics handles GET /analytics. The snapshot is recomputed from
// current store state on every request.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.analytics.Snapshot(r.Context(), middleware.GetRole(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, snapshot, nil)
}
