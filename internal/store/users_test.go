// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"testing"
	"time"

	"github.com/calyptra/studio-go/internal/model"
)

// testUserParams returns valid CreateUserParams with unique identity fields.
func testUserParams(username string) CreateUserParams {
	now := time.Now()
	return CreateUserParams{
		Name:         "User " + username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		Role:         model.RoleEditor,
		Status:       model.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestCreateUser(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	user, err := q.CreateUser(ctx, testUserParams("jdoe"))
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if user.ID == 0 {
		t.Error("user.ID should not be 0")
	}
	if user.Username != "jdoe" {
		t.Errorf("Username = %q, want jdoe", user.Username)
	}
	if user.Role != model.RoleEditor {
		t.Errorf("Role = %q, want Editor", user.Role)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	if _, err := q.CreateUser(ctx, testUserParams("taken")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	dup := testUserParams("taken")
	dup.Email = "other@example.com"
	if _, err := q.CreateUser(ctx, dup); err != ErrConflict {
		t.Errorf("duplicate username error = %v, want ErrConflict", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	if _, err := q.CreateUser(ctx, testUserParams("first")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	dup := testUserParams("second")
	dup.Email = "first@example.com"
	if _, err := q.CreateUser(ctx, dup); err != ErrConflict {
		t.Errorf("duplicate email error = %v, want ErrConflict", err)
	}
}

func TestGetUserByUsername(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	created, err := q.CreateUser(ctx, testUserParams("finder"))
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := q.GetUserByUsername(ctx, "finder")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %d, want %d", got.ID, created.ID)
	}

	if _, err := q.GetUserByUsername(ctx, "ghost"); err != ErrNotFound {
		t.Errorf("missing username error = %v, want ErrNotFound", err)
	}
}

func TestListUsersOrderedByCreation(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, username := range []string{"one", "two", "three"} {
		p := testUserParams(username)
		p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		p.UpdatedAt = p.CreatedAt
		if _, err := q.CreateUser(ctx, p); err != nil {
			t.Fatalf("CreateUser(%s): %v", username, err)
		}
	}

	users, err := q.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("len = %d, want 3", len(users))
	}
	for i, want := range []string{"one", "two", "three"} {
		if users[i].Username != want {
			t.Errorf("users[%d].Username = %q, want %q", i, users[i].Username, want)
		}
	}
}

func TestUpdateUserPartial(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	created, err := q.CreateUser(ctx, testUserParams("mutable"))
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	upd := model.UserUpdate{
		Name: model.NewField("Renamed"),
		Role: model.NewField(model.RoleAdmin),
	}
	got, err := q.UpdateUser(ctx, created.ID, upd, "", time.Now())
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	if got.Name != "Renamed" {
		t.Errorf("Name = %q, want Renamed", got.Name)
	}
	if got.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want Admin", got.Role)
	}
	if got.Username != created.Username {
		t.Errorf("Username changed to %q", got.Username)
	}
	if got.PasswordHash != created.PasswordHash {
		t.Error("PasswordHash changed without a password update")
	}
}

func TestUpdateUserPasswordHash(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	created, err := q.CreateUser(ctx, testUserParams("rehash"))
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := q.UpdateUser(ctx, created.ID, model.UserUpdate{}, "new-hash", time.Now())
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if got.PasswordHash != "new-hash" {
		t.Errorf("PasswordHash = %q, want new-hash", got.PasswordHash)
	}
}

func TestDeleteUser(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	created, err := q.CreateUser(ctx, testUserParams("leaver"))
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if err := q.DeleteUser(ctx, created.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := q.GetUserByID(ctx, created.ID); err != ErrNotFound {
		t.Errorf("after delete, err = %v, want ErrNotFound", err)
	}
	if err := q.DeleteUser(ctx, created.ID); err != ErrNotFound {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestCountUsernameExcludeID(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	created, err := q.CreateUser(ctx, testUserParams("selfcheck"))
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	n, err := q.CountUsername(ctx, "selfcheck", 0)
	if err != nil {
		t.Fatalf("CountUsername: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}

	n, err = q.CountUsername(ctx, "selfcheck", created.ID)
	if err != nil {
		t.Fatalf("CountUsername: %v", err)
	}
	if n != 0 {
		t.Errorf("count excluding self = %d, want 0", n)
	}

	n, err = q.CountEmail(ctx, "selfcheck@example.com", created.ID)
	if err != nil {
		t.Fatalf("CountEmail: %v", err)
	}
	if n != 0 {
		t.Errorf("email count excluding self = %d, want 0", n)
	}
}
