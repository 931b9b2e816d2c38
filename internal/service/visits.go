// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"

	"github.com/calyptra/studio-go/internal/geoip"
	"github.com/calyptra/studio-go/internal/store"
)

// VisitService ingests page-visit events. This is the single public write
// path in the system: visits carry no caller role and pass no gate, and the
// log they land in is append-only.
type VisitService struct {
	queries *store.Queries
	geo     *geoip.Lookup
}

// NewVisitService creates a VisitService. geo may be nil when GeoIP is not
// configured.
func NewVisitService(queries *store.Queries, geo *geoip.Lookup) *VisitService {
	return &VisitService{queries: queries, geo: geo}
}

// VisitInput is one raw page-visit event from the tracking endpoint.
type VisitInput struct {
	Path      string `json:"path"`
	Referrer  string `json:"referrer"`
	VisitorID string `json:"visitor_id"`
	UserAgent string `json:"-"`
	RemoteIP  string `json:"-"`
}

// deviceType classifies a parsed user agent.
func deviceType(ua useragent.UserAgent) string {
	switch {
	case ua.Bot:
		return "bot"
	case ua.Mobile:
		return "mobile"
	case ua.Tablet:
		return "tablet"
	default:
		return "desktop"
	}
}

// Track validates and appends one visit row. A missing visitor id gets a
// fresh UUID so that distinct-visitor counts stay meaningful.
func (s *VisitService) Track(ctx context.Context, in VisitInput) error {
	path := strings.TrimSpace(in.Path)
	if path == "" {
		return newValidationError(map[string]string{"path": "path is required"})
	}

	visitorID := in.VisitorID
	if visitorID == "" {
		visitorID = uuid.NewString()
	}

	ua := useragent.Parse(in.UserAgent)

	country := ""
	if s.geo != nil {
		country = s.geo.Country(in.RemoteIP)
	}

	return s.queries.CreatePageVisit(ctx, store.CreatePageVisitParams{
		Path:       path,
		Referrer:   strings.TrimSpace(in.Referrer),
		VisitorID:  visitorID,
		Browser:    ua.Name,
		OS:         ua.OS,
		DeviceType: deviceType(ua),
		Country:    country,
		CreatedAt:  time.Now(),
	})
}
