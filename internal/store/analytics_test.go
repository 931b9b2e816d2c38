// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"testing"
	"time"

	"github.com/calyptra/studio-go/internal/model"
)

func TestGroupProjects(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	statuses := []string{
		model.ProjectStatusCompleted,
		model.ProjectStatusCompleted,
		model.ProjectStatusOngoing,
		model.ProjectStatusPlanning,
	}
	for i, status := range statuses {
		p := testProjectParams(string(rune('a'+i)) + "-grp")
		p.Status = status
		if _, err := q.CreateProject(ctx, p); err != nil {
			t.Fatalf("CreateProject: %v", err)
		}
	}

	groups, err := q.GroupProjects(ctx, "status")
	if err != nil {
		t.Fatalf("GroupProjects: %v", err)
	}

	counts := map[string]int64{}
	for _, g := range groups {
		counts[g.Key] = g.Count
	}
	if counts[model.ProjectStatusCompleted] != 2 {
		t.Errorf("Completed = %d, want 2", counts[model.ProjectStatusCompleted])
	}
	if counts[model.ProjectStatusOngoing] != 1 {
		t.Errorf("Ongoing = %d, want 1", counts[model.ProjectStatusOngoing])
	}
	if counts[model.ProjectStatusPlanning] != 1 {
		t.Errorf("Planning = %d, want 1", counts[model.ProjectStatusPlanning])
	}
}

func TestGroupProjectsRejectsUnknownColumn(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	if _, err := q.GroupProjects(context.Background(), "password_hash"); err == nil {
		t.Error("GroupProjects should reject columns outside the groupable set")
	}
}

func TestProjectsByMonth(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	months := []time.Time{
		time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), // before window
	}
	for i, created := range months {
		p := testProjectParams(string(rune('a'+i)) + "-month")
		p.CreatedAt = created
		p.UpdatedAt = created
		if _, err := q.CreateProject(ctx, p); err != nil {
			t.Fatalf("CreateProject: %v", err)
		}
	}

	buckets, err := q.ProjectsByMonth(ctx, "2025-06")
	if err != nil {
		t.Fatalf("ProjectsByMonth: %v", err)
	}

	if len(buckets) != 2 {
		t.Fatalf("len(buckets) = %d, want 2: %+v", len(buckets), buckets)
	}
	if buckets[0].Month != "2026-01" || buckets[0].Count != 2 {
		t.Errorf("buckets[0] = %+v, want {2026-01 2}", buckets[0])
	}
	if buckets[1].Month != "2026-03" || buckets[1].Count != 1 {
		t.Errorf("buckets[1] = %+v, want {2026-03 1}", buckets[1])
	}
}

func TestRecentProjects(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		p := testProjectParams(string(rune('a'+i)) + "-recent")
		p.CreatedAt = base.AddDate(0, 0, i)
		p.UpdatedAt = p.CreatedAt
		if _, err := q.CreateProject(ctx, p); err != nil {
			t.Fatalf("CreateProject: %v", err)
		}
	}

	recent, err := q.RecentProjects(ctx, 2)
	if err != nil {
		t.Fatalf("RecentProjects: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("len = %d, want 2", len(recent))
	}
	if recent[0].Slug != "d-recent" || recent[1].Slug != "c-recent" {
		t.Errorf("recent = [%s %s], want [d-recent c-recent]", recent[0].Slug, recent[1].Slug)
	}
}

func TestAllProjectTools(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	a := testProjectParams("tools-a")
	a.Tools = model.StringList{"Go", "React"}
	b := testProjectParams("tools-b")
	b.Tools = model.StringList{}
	for _, p := range []CreateProjectParams{a, b} {
		if _, err := q.CreateProject(ctx, p); err != nil {
			t.Fatalf("CreateProject: %v", err)
		}
	}

	lists, err := q.AllProjectTools(ctx)
	if err != nil {
		t.Fatalf("AllProjectTools: %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("len = %d, want 2", len(lists))
	}
	if len(lists[0]) != 2 {
		t.Errorf("lists[0] = %v, want two tools", lists[0])
	}
	if len(lists[1]) != 0 {
		t.Errorf("lists[1] = %v, want empty", lists[1])
	}
}

func TestGroupUsersByRole(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	roles := []model.Role{model.RoleAdmin, model.RoleAdmin, model.RoleViewer}
	for i, role := range roles {
		p := testUserParams(string(rune('a'+i)) + "-role")
		p.Role = role
		if _, err := q.CreateUser(ctx, p); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
	}

	groups, err := q.GroupUsersByRole(ctx)
	if err != nil {
		t.Fatalf("GroupUsersByRole: %v", err)
	}
	counts := map[string]int64{}
	for _, g := range groups {
		counts[g.Key] = g.Count
	}
	if counts[string(model.RoleAdmin)] != 2 {
		t.Errorf("Admin = %d, want 2", counts[string(model.RoleAdmin)])
	}
	if counts[string(model.RoleViewer)] != 1 {
		t.Errorf("Viewer = %d, want 1", counts[string(model.RoleViewer)])
	}
}
