// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Project statuses
const (
	ProjectStatusPlanning  = "Planning"
	ProjectStatusOngoing   = "Ongoing"
	ProjectStatusCompleted = "Completed"
)

// ValidProjectStatuses contains all valid project statuses.
var ValidProjectStatuses = []string{ProjectStatusPlanning, ProjectStatusOngoing, ProjectStatusCompleted}

// IsValidProjectStatus checks if a status is one of the defined literals.
func IsValidProjectStatus(status string) bool {
	for _, s := range ValidProjectStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// StringList is an ordered sequence of strings stored as a JSON-encoded
// TEXT column. The empty list round-trips as "[]", not NULL, so that
// encode-store-fetch-decode is the identity for any list.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encoding string list: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported string list type %T", src)
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("decoding string list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

// Project represents a catalog project shown on the marketing site and
// managed from the admin dashboard.
type Project struct {
	ID              int64      `json:"id"`
	Slug            string     `json:"slug"`
	Name            string     `json:"name"`
	Client          string     `json:"client"`
	Status          string     `json:"status"`
	Date            time.Time  `json:"date"`
	ImpactArea      string     `json:"impact_area"`
	ServiceType     string     `json:"service_type"`
	Image           string     `json:"image,omitempty"`
	ProjectOverview string     `json:"project_overview,omitempty"`
	ScopeOfWork     string     `json:"scope_of_work,omitempty"`
	ProjectSummary  string     `json:"project_summary,omitempty"`
	ProjectURL      string     `json:"project_url,omitempty"`
	CaseStudyURL    string     `json:"case_study_url,omitempty"`
	Tools           StringList `json:"tools"`
	MediaFiles      StringList `json:"media_files"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsCompleted returns true if the project has Completed status.
func (p *Project) IsCompleted() bool {
	return p.Status == ProjectStatusCompleted
}

// ProjectFilter holds the optional list criteria for projects. The zero
// value matches everything. The sentinel "All" on a facet means no
// constraint on that field.
type ProjectFilter struct {
	Search      string
	Status      string
	ImpactArea  string
	ServiceType string
}

// ProjectUpdate is a partial-update field set for a project. Only set
// fields become assignment clauses.
type ProjectUpdate struct {
	Slug            Field[string]     `json:"slug"`
	Name            Field[string]     `json:"name"`
	Client          Field[string]     `json:"client"`
	Status          Field[string]     `json:"status"`
	Date            Field[time.Time]  `json:"date"`
	ImpactArea      Field[string]     `json:"impact_area"`
	ServiceType     Field[string]     `json:"service_type"`
	Image           Field[string]     `json:"image"`
	ProjectOverview Field[string]     `json:"project_overview"`
	ScopeOfWork     Field[string]     `json:"scope_of_work"`
	ProjectSummary  Field[string]     `json:"project_summary"`
	ProjectURL      Field[string]     `json:"project_url"`
	CaseStudyURL    Field[string]     `json:"case_study_url"`
	Tools           Field[StringList] `json:"tools"`
	MediaFiles      Field[StringList] `json:"media_files"`
}
