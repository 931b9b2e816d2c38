// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// PageVisit is a single append-only page-visit log row. Visits are written
// by the public tracking endpoint and only ever read back by the analytics
// aggregator; the core exposes no update or delete for them.
type PageVisit struct {
	ID         int64     `json:"id"`
	Path       string    `json:"path"`
	Referrer   string    `json:"referrer,omitempty"`
	VisitorID  string    `json:"visitor_id"`
	Browser    string    `json:"browser,omitempty"`
	OS         string    `json:"os,omitempty"`
	DeviceType string    `json:"device_type,omitempty"`
	Country    string    `json:"country,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
