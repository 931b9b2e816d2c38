// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/calyptra/studio-go/internal/model"
	"github.com/calyptra/studio-go/internal/store"
	"github.com/calyptra/studio-go/internal/util"
)

// maxSlugAttempts bounds slug disambiguation for duplicate names.
const maxSlugAttempts = 50

// ProjectService is the authorization-gated access layer for projects.
type ProjectService struct {
	db      *sql.DB
	queries *store.Queries
}

// NewProjectService creates a ProjectService.
func NewProjectService(db *sql.DB, queries *store.Queries) *ProjectService {
	return &ProjectService{db: db, queries: queries}
}

// CreateProjectInput holds a project creation request. Slug is optional;
// when absent it is derived from the name.
type CreateProjectInput struct {
	Slug            string           `json:"slug"`
	Name            string           `json:"name"`
	Client          string           `json:"client"`
	Status          string           `json:"status"`
	Date            time.Time        `json:"date"`
	ImpactArea      string           `json:"impact_area"`
	ServiceType     string           `json:"service_type"`
	Image           string           `json:"image"`
	ProjectOverview string           `json:"project_overview"`
	ScopeOfWork     string           `json:"scope_of_work"`
	ProjectSummary  string           `json:"project_summary"`
	ProjectURL      string           `json:"project_url"`
	CaseStudyURL    string           `json:"case_study_url"`
	Tools           model.StringList `json:"tools"`
	MediaFiles      model.StringList `json:"media_files"`
}

func validateCreateProject(in CreateProjectInput) error {
	fields := make(map[string]string)
	if in.Name == "" {
		fields["name"] = "name is required"
	}
	if in.Client == "" {
		fields["client"] = "client is required"
	}
	if !model.IsValidProjectStatus(in.Status) {
		fields["status"] = "status must be one of Planning, Ongoing, Completed"
	}
	if in.Date.IsZero() {
		fields["date"] = "date is required"
	}
	if in.ImpactArea == "" {
		fields["impact_area"] = "impact area is required"
	}
	if in.ServiceType == "" {
		fields["service_type"] = "service type is required"
	}
	if in.Slug != "" && !util.IsValidSlug(in.Slug) {
		fields["slug"] = "invalid slug format (use lowercase letters, numbers, and hyphens)"
	}
	if len(fields) > 0 {
		return newValidationError(fields)
	}
	return nil
}

// List returns projects matching the filter. Requires CanViewProjects.
func (s *ProjectService) List(ctx context.Context, role model.Role, f model.ProjectFilter) ([]model.Project, error) {
	if err := authorize(role, CapViewProjects); err != nil {
		return nil, err
	}
	return s.queries.ListProjects(ctx, f)
}

// Get returns one project by slug. Requires CanViewProjects.
func (s *ProjectService) Get(ctx context.Context, role model.Role, slug string) (model.Project, error) {
	if err := authorize(role, CapViewProjects); err != nil {
		return model.Project{}, err
	}
	return s.queries.GetProjectBySlug(ctx, slug)
}

// Create inserts a new project. Requires CanCreateProjects. A derived slug
// is disambiguated against existing rows (acme-site, acme-site-2, ...); an
// explicitly supplied slug that collides fails with Conflict instead. The
// uniqueness pre-check and the insert run inside one transaction, and the
// insert still maps constraint failures to Conflict in case a concurrent
// writer slips between check and write.
func (s *ProjectService) Create(ctx context.Context, role model.Role, in CreateProjectInput) (model.Project, error) {
	if err := authorize(role, CapCreateProjects); err != nil {
		return model.Project{}, err
	}
	if err := validateCreateProject(in); err != nil {
		return model.Project{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Project{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)

	slug := in.Slug
	if slug == "" {
		slug, err = s.disambiguateSlug(ctx, qtx, util.Slugify(in.Name))
		if err != nil {
			return model.Project{}, err
		}
	} else {
		taken, err := qtx.CountProjectSlug(ctx, slug, 0)
		if err != nil {
			return model.Project{}, err
		}
		if taken > 0 {
			return model.Project{}, ErrConflict
		}
	}

	now := time.Now()
	project, err := qtx.CreateProject(ctx, store.CreateProjectParams{
		Slug:            slug,
		Name:            in.Name,
		Client:          in.Client,
		Status:          in.Status,
		Date:            in.Date,
		ImpactArea:      in.ImpactArea,
		ServiceType:     in.ServiceType,
		Image:           in.Image,
		ProjectOverview: in.ProjectOverview,
		ScopeOfWork:     in.ScopeOfWork,
		ProjectSummary:  in.ProjectSummary,
		ProjectURL:      in.ProjectURL,
		CaseStudyURL:    in.CaseStudyURL,
		Tools:           in.Tools,
		MediaFiles:      in.MediaFiles,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return model.Project{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Project{}, fmt.Errorf("committing project create: %w", err)
	}

	slog.Info("project created", "project_id", project.ID, "slug", project.Slug)
	return project, nil
}

// disambiguateSlug appends -2, -3, ... until the slug is free.
func (s *ProjectService) disambiguateSlug(ctx context.Context, q *store.Queries, base string) (string, error) {
	if base == "" {
		base = "project"
	}
	slug := base
	for i := 2; i <= maxSlugAttempts; i++ {
		taken, err := q.CountProjectSlug(ctx, slug, 0)
		if err != nil {
			return "", err
		}
		if taken == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	return "", ErrConflict
}

func validateProjectUpdate(upd model.ProjectUpdate) error {
	fields := make(map[string]string)
	// Required fields may not be blanked; optional fields may.
	if upd.Slug.Set && !util.IsValidSlug(upd.Slug.Value) {
		fields["slug"] = "invalid slug format (use lowercase letters, numbers, and hyphens)"
	}
	if upd.Name.Set && upd.Name.Value == "" {
		fields["name"] = "name cannot be empty"
	}
	if upd.Client.Set && upd.Client.Value == "" {
		fields["client"] = "client cannot be empty"
	}
	if upd.Status.Set && !model.IsValidProjectStatus(upd.Status.Value) {
		fields["status"] = "status must be one of Planning, Ongoing, Completed"
	}
	if upd.Date.Set && upd.Date.Value.IsZero() {
		fields["date"] = "date cannot be empty"
	}
	if upd.ImpactArea.Set && upd.ImpactArea.Value == "" {
		fields["impact_area"] = "impact area cannot be empty"
	}
	if upd.ServiceType.Set && upd.ServiceType.Value == "" {
		fields["service_type"] = "service type cannot be empty"
	}
	if len(fields) > 0 {
		return newValidationError(fields)
	}
	return nil
}

// Update applies a partial update to the project identified by slug.
// Requires CanEditProjects. Omitted fields retain their prior value; an
// update with no fields is a no-op success. A set slug is an explicit
// rename: its uniqueness pre-check excludes the row being updated, so
// re-submitting the current slug is never a conflict.
func (s *ProjectService) Update(ctx context.Context, role model.Role, slug string, upd model.ProjectUpdate) (model.Project, error) {
	if err := authorize(role, CapEditProjects); err != nil {
		return model.Project{}, err
	}
	if err := validateProjectUpdate(upd); err != nil {
		return model.Project{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Project{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)

	current, err := qtx.GetProjectBySlug(ctx, slug)
	if err != nil {
		return model.Project{}, err
	}

	if upd.Slug.Set {
		taken, err := qtx.CountProjectSlug(ctx, upd.Slug.Value, current.ID)
		if err != nil {
			return model.Project{}, err
		}
		if taken > 0 {
			return model.Project{}, ErrConflict
		}
	}

	project, err := qtx.UpdateProject(ctx, current.ID, upd, time.Now())
	if err != nil {
		return model.Project{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Project{}, fmt.Errorf("committing project update: %w", err)
	}

	slog.Info("project updated", "project_id", project.ID, "slug", project.Slug)
	return project, nil
}

// Delete removes the project identified by slug, irreversibly. Requires
// CanDeleteProjects.
func (s *ProjectService) Delete(ctx context.Context, role model.Role, slug string) error {
	if err := authorize(role, CapDeleteProjects); err != nil {
		return err
	}
	if err := s.queries.DeleteProjectBySlug(ctx, slug); err != nil {
		return err
	}
	slog.Info("project deleted", "slug", slug)
	return nil
}
