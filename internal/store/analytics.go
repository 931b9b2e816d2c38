// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"

	"github.com/calyptra/studio-go/internal/model"
)

// Grouping columns the aggregator may ask for. Fixed enumeration; group-by
// identifiers never come from request data, but the same allow-list rule
// applies as everywhere else.
var groupableColumns = map[string]bool{
	"status": true, "impact_area": true, "service_type": true, "role": true,
}

// GroupCount is one group key with its row count.
type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// MonthCount is one YYYY-MM bucket with its row count.
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// monthExpr returns the engine-specific expression bucketing a timestamp
// column into a YYYY-MM string.
func (q *Queries) monthExpr(col string) string {
	if q.dialect == DriverMySQL {
		return "DATE_FORMAT(" + col + ", '%Y-%m')"
	}
	return "strftime('%Y-%m', " + col + ")"
}

func (q *Queries) scanGroupCounts(ctx context.Context, query string, args ...any) ([]GroupCount, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying group counts: %w", err)
	}
	defer rows.Close()

	out := []GroupCount{}
	for rows.Next() {
		var gc GroupCount
		if err := rows.Scan(&gc.Key, &gc.Count); err != nil {
			return nil, fmt.Errorf("scanning group count: %w", err)
		}
		out = append(out, gc)
	}
	return out, rows.Err()
}

// CountProjects returns the total number of projects.
func (q *Queries) CountProjects(ctx context.Context) (int64, error) {
	var n int64
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting projects: %w", err)
	}
	return n, nil
}

// CountProjectsByStatus returns the number of projects holding one status.
func (q *Queries) CountProjectsByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	if err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE status = ?`, status).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting projects by status: %w", err)
	}
	return n, nil
}

// GroupProjects returns project counts grouped by an allow-listed column.
func (q *Queries) GroupProjects(ctx context.Context, col string) ([]GroupCount, error) {
	if !groupableColumns[col] {
		return nil, fmt.Errorf("column %q not allowed in grouping", col)
	}
	return q.scanGroupCounts(ctx,
		`SELECT `+col+`, COUNT(*) FROM projects GROUP BY `+col+` ORDER BY COUNT(*) DESC, `+col+` ASC`)
}

// ProjectsByMonth returns per-month project creation counts for months at
// or after the YYYY-MM lower bound, oldest first.
func (q *Queries) ProjectsByMonth(ctx context.Context, sinceMonth string) ([]MonthCount, error) {
	return q.monthCounts(ctx, "projects", sinceMonth)
}

// UsersByMonth returns per-month user creation counts.
func (q *Queries) UsersByMonth(ctx context.Context, sinceMonth string) ([]MonthCount, error) {
	return q.monthCounts(ctx, "users", sinceMonth)
}

func (q *Queries) monthCounts(ctx context.Context, table, sinceMonth string) ([]MonthCount, error) {
	expr := q.monthExpr("created_at")
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+expr+` AS month, COUNT(*) FROM `+table+
			` GROUP BY month HAVING month >= ? ORDER BY month ASC`, sinceMonth)
	if err != nil {
		return nil, fmt.Errorf("querying %s by month: %w", table, err)
	}
	defer rows.Close()

	out := []MonthCount{}
	for rows.Next() {
		var mc MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, fmt.Errorf("scanning month count: %w", err)
		}
		out = append(out, mc)
	}
	return out, rows.Err()
}

// RecentProjects returns the most recently created projects.
func (q *Queries) RecentProjects(ctx context.Context, limit int64) ([]model.Project, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+projectFields+` FROM projects ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent projects: %w", err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// AllProjectTools returns the encoded tools lists of all projects in
// insertion order, for tag-frequency extraction.
func (q *Queries) AllProjectTools(ctx context.Context) ([]model.StringList, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT tools FROM projects ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying project tools: %w", err)
	}
	defer rows.Close()

	out := []model.StringList{}
	for rows.Next() {
		var l model.StringList
		if err := rows.Scan(&l); err != nil {
			return nil, fmt.Errorf("scanning tools list: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CountUsers returns the total number of users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}

// GroupUsersByRole returns user counts grouped by role.
func (q *Queries) GroupUsersByRole(ctx context.Context) ([]GroupCount, error) {
	return q.scanGroupCounts(ctx,
		`SELECT role, COUNT(*) FROM users GROUP BY role ORDER BY COUNT(*) DESC, role ASC`)
}

// GroupUsersByStatus returns user counts grouped by status.
func (q *Queries) GroupUsersByStatus(ctx context.Context) ([]GroupCount, error) {
	return q.scanGroupCounts(ctx,
		`SELECT status, COUNT(*) FROM users GROUP BY status ORDER BY COUNT(*) DESC, status ASC`)
}
