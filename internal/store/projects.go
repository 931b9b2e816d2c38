// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/calyptra/studio-go/internal/model"
)

const projectFields = `id, slug, name, client, status, date, impact_area, service_type,
	image, project_overview, scope_of_work, project_summary, project_url, case_study_url,
	tools, media_files, created_at, updated_at`

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (model.Project, error) {
	var p model.Project
	err := s.Scan(
		&p.ID, &p.Slug, &p.Name, &p.Client, &p.Status, &p.Date,
		&p.ImpactArea, &p.ServiceType, &p.Image, &p.ProjectOverview,
		&p.ScopeOfWork, &p.ProjectSummary, &p.ProjectURL, &p.CaseStudyURL,
		&p.Tools, &p.MediaFiles, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// CreateProjectParams holds the fields for a new project row.
type CreateProjectParams struct {
	Slug            string
	Name            string
	Client          string
	Status          string
	Date            time.Time
	ImpactArea      string
	ServiceType     string
	Image           string
	ProjectOverview string
	ScopeOfWork     string
	ProjectSummary  string
	ProjectURL      string
	CaseStudyURL    string
	Tools           model.StringList
	MediaFiles      model.StringList
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateProject inserts a project row and returns the stored record with
// its assigned identity. A unique-constraint failure surfaces as
// ErrConflict.
func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (model.Project, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO projects (slug, name, client, status, date, impact_area, service_type,
			image, project_overview, scope_of_work, project_summary, project_url, case_study_url,
			tools, media_files, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Slug, arg.Name, arg.Client, arg.Status, arg.Date, arg.ImpactArea, arg.ServiceType,
		arg.Image, arg.ProjectOverview, arg.ScopeOfWork, arg.ProjectSummary, arg.ProjectURL, arg.CaseStudyURL,
		arg.Tools, arg.MediaFiles, arg.CreatedAt, arg.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Project{}, ErrConflict
		}
		return model.Project{}, fmt.Errorf("inserting project: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Project{}, fmt.Errorf("reading inserted project id: %w", err)
	}

	return q.GetProjectByID(ctx, id)
}

// GetProjectByID fetches a single project by id.
func (q *Queries) GetProjectByID(ctx context.Context, id int64) (model.Project, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+projectFields+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, ErrNotFound
	}
	if err != nil {
		return model.Project{}, fmt.Errorf("getting project %d: %w", id, err)
	}
	return p, nil
}

// GetProjectBySlug fetches a single project by slug.
func (q *Queries) GetProjectBySlug(ctx context.Context, slug string) (model.Project, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+projectFields+` FROM projects WHERE slug = ?`, slug)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, ErrNotFound
	}
	if err != nil {
		return model.Project{}, fmt.Errorf("getting project %q: %w", slug, err)
	}
	return p, nil
}

// ListProjects returns projects matching the filter, ordered by date
// descending. No matches is an empty slice, which is success.
func (q *Queries) ListProjects(ctx context.Context, f model.ProjectFilter) ([]model.Project, error) {
	where, args, err := newWhereBuilder(projectColumns).
		Facet("status", f.Status).
		Facet("impact_area", f.ImpactArea).
		Facet("service_type", f.ServiceType).
		Search(f.Search, "name", "client", "project_overview").
		Clause()
	if err != nil {
		return nil, err
	}

	rows, err := q.db.QueryContext(ctx,
		`SELECT `+projectFields+` FROM projects`+where+` ORDER BY date DESC, id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
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

// UpdateProject applies a partial update to the project with the given id
// and returns the resulting record. Only set fields become assignment
// clauses; a field set to its zero value is still applied. An update with
// no set fields returns the current row unchanged.
func (q *Queries) UpdateProject(ctx context.Context, id int64, upd model.ProjectUpdate, now time.Time) (model.Project, error) {
	b := newUpdateBuilder(projectColumns)
	if upd.Slug.Set {
		b.Set("slug", upd.Slug.Value)
	}
	if upd.Name.Set {
		b.Set("name", upd.Name.Value)
	}
	if upd.Client.Set {
		b.Set("client", upd.Client.Value)
	}
	if upd.Status.Set {
		b.Set("status", upd.Status.Value)
	}
	if upd.Date.Set {
		b.Set("date", upd.Date.Value)
	}
	if upd.ImpactArea.Set {
		b.Set("impact_area", upd.ImpactArea.Value)
	}
	if upd.ServiceType.Set {
		b.Set("service_type", upd.ServiceType.Value)
	}
	if upd.Image.Set {
		b.Set("image", upd.Image.Value)
	}
	if upd.ProjectOverview.Set {
		b.Set("project_overview", upd.ProjectOverview.Value)
	}
	if upd.ScopeOfWork.Set {
		b.Set("scope_of_work", upd.ScopeOfWork.Value)
	}
	if upd.ProjectSummary.Set {
		b.Set("project_summary", upd.ProjectSummary.Value)
	}
	if upd.ProjectURL.Set {
		b.Set("project_url", upd.ProjectURL.Value)
	}
	if upd.CaseStudyURL.Set {
		b.Set("case_study_url", upd.CaseStudyURL.Value)
	}
	if upd.Tools.Set {
		b.Set("tools", upd.Tools.Value)
	}
	if upd.MediaFiles.Set {
		b.Set("media_files", upd.MediaFiles.Value)
	}

	if b.Empty() {
		return q.GetProjectByID(ctx, id)
	}

	b.Set("updated_at", now)
	query, args, err := b.SQL("projects", "id", id)
	if err != nil {
		return model.Project{}, err
	}

	if _, err := q.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return model.Project{}, ErrConflict
		}
		return model.Project{}, fmt.Errorf("updating project %d: %w", id, err)
	}

	return q.GetProjectByID(ctx, id)
}

// DeleteProjectBySlug removes a project. Deleting a missing slug fails
// with ErrNotFound.
func (q *Queries) DeleteProjectBySlug(ctx context.Context, slug string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM projects WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("deleting project %q: %w", slug, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting project %q: %w", slug, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountProjectSlug counts live projects holding the slug, excluding the row
// with excludeID so that a no-op rename is not flagged as a conflict. Pass
// excludeID 0 for creation checks.
func (q *Queries) CountProjectSlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting slug %q: %w", slug, err)
	}
	return n, nil
}
