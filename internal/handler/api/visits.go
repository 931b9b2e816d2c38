// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/calyptra/studio-go/internal/middleware"
	"github.com/calyptra/studio-go/internal/service"
)

// TrackVisit handles POST /visits, the public tracking endpoint called by
// the marketing site. It accepts the event and returns 202 without a body;
// enrichment (user agent, GeoIP) happens server-side from request metadata.
func (h *Handler) TrackVisit(w http.ResponseWriter, r *http.Request) {
	var in service.VisitInput
	if !decodeJSON(w, r, &in) {
		return
	}

	in.UserAgent = r.UserAgent()
	in.RemoteIP = middleware.GetClientIP(r)

	if err := h.visits.Track(r.Context(), in); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
