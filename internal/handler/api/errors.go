// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/calyptra/studio-go/internal/service"
)

// writeServiceError maps service-layer errors onto HTTP responses. The
// mapping is uniform across all resources so clients see one error shape.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if verr, ok := service.AsValidation(err); ok {
		WriteValidationError(w, verr.Fields)
		return
	}

	switch {
	case errors.Is(err, service.ErrUnauthorized):
		WriteForbidden(w, "Insufficient permissions")
	case errors.Is(err, service.ErrNotFound):
		WriteNotFound(w, "Resource not found")
	case errors.Is(err, service.ErrConflict):
		WriteConflict(w, "Resource conflict")
	default:
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		WriteInternalError(w, "Internal server error")
	}
}
