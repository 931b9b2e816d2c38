// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/calyptra/studio-go/internal/model"
)

// CreatePageVisitParams holds the fields for one page-visit log row.
type CreatePageVisitParams struct {
	Path       string
	Referrer   string
	VisitorID  string
	Browser    string
	OS         string
	DeviceType string
	Country    string
	CreatedAt  time.Time
}

// CreatePageVisit appends one row to the visit log. The log is
// write-mostly and append-only; no update or delete is exposed.
func (q *Queries) CreatePageVisit(ctx context.Context, arg CreatePageVisitParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO page_visits (path, referrer, visitor_id, browser, os, device_type, country, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Path, arg.Referrer, arg.VisitorID, arg.Browser, arg.OS, arg.DeviceType, arg.Country, arg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting page visit: %w", err)
	}
	return nil
}

// CountVisits returns the total number of logged visits.
func (q *Queries) CountVisits(ctx context.Context) (int64, error) {
	var n int64
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM page_visits`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting visits: %w", err)
	}
	return n, nil
}

// CountDistinctVisitors returns the number of distinct visitor ids.
func (q *Queries) CountDistinctVisitors(ctx context.Context) (int64, error) {
	var n int64
	if err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT visitor_id) FROM page_visits`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting distinct visitors: %w", err)
	}
	return n, nil
}

// CountVisitsSince returns the number of visits at or after the given time.
func (q *Queries) CountVisitsSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	if err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM page_visits WHERE created_at >= ?`, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting visits since %v: %w", since, err)
	}
	return n, nil
}

// RecentVisits returns the newest visit rows, newest first.
func (q *Queries) RecentVisits(ctx context.Context, limit int64) ([]model.PageVisit, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, path, referrer, visitor_id, browser, os, device_type, country, created_at
		FROM page_visits ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent visits: %w", err)
	}
	defer rows.Close()

	out := []model.PageVisit{}
	for rows.Next() {
		var v model.PageVisit
		if err := rows.Scan(&v.ID, &v.Path, &v.Referrer, &v.VisitorID,
			&v.Browser, &v.OS, &v.DeviceType, &v.Country, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning page visit: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// PathCount is one path with its visit count.
type PathCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// TopPaths returns the most-visited paths, highest count first.
func (q *Queries) TopPaths(ctx context.Context, limit int64) ([]PathCount, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT path, COUNT(*) AS visits FROM page_visits
		GROUP BY path ORDER BY visits DESC, path ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top paths: %w", err)
	}
	defer rows.Close()

	out := []PathCount{}
	for rows.Next() {
		var pc PathCount
		if err := rows.Scan(&pc.Path, &pc.Count); err != nil {
			return nil, fmt.Errorf("scanning top path: %w", err)
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

// ReferrerCount is one referrer with its visit count.
type ReferrerCount struct {
	Referrer string `json:"referrer"`
	Count    int64  `json:"count"`
}

// TopReferrers returns the most common non-empty referrers.
func (q *Queries) TopReferrers(ctx context.Context, limit int64) ([]ReferrerCount, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT referrer, COUNT(*) AS visits FROM page_visits
		WHERE referrer != ''
		GROUP BY referrer ORDER BY visits DESC, referrer ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top referrers: %w", err)
	}
	defer rows.Close()

	out := []ReferrerCount{}
	for rows.Next() {
		var rc ReferrerCount
		if err := rows.Scan(&rc.Referrer, &rc.Count); err != nil {
			return nil, fmt.Errorf("scanning top referrer: %w", err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// DeleteVisitsBefore trims visit rows older than the cutoff. This is an
// operational retention task, not part of the data-access API, and is only
// invoked by the maintenance scheduler.
func (q *Queries) DeleteVisitsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM page_visits WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("trimming page visits: %w", err)
	}
	return res.RowsAffected()
}
