// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/calyptra/studio-go/internal/auth"
	"github.com/calyptra/studio-go/internal/model"
	"github.com/calyptra/studio-go/internal/store"
)

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 8

// UserService is the authorization-gated access layer for users.
type UserService struct {
	db      *sql.DB
	queries *store.Queries
}

// NewUserService creates a UserService.
func NewUserService(db *sql.DB, queries *store.Queries) *UserService {
	return &UserService{db: db, queries: queries}
}

// CreateUserInput holds a user creation request. Password is mandatory and
// is hashed before storage.
type CreateUserInput struct {
	Name     string     `json:"name"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
	Status   string     `json:"status"`
	Avatar   string     `json:"avatar"`
}

func validateCreateUser(in CreateUserInput) error {
	fields := make(map[string]string)
	if in.Name == "" {
		fields["name"] = "name is required"
	}
	if in.Username == "" {
		fields["username"] = "username is required"
	}
	if !model.IsValidEmail(in.Email) {
		fields["email"] = "invalid email format"
	}
	if len(in.Password) < minPasswordLength {
		fields["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLength)
	}
	if !model.IsValidRole(in.Role) {
		fields["role"] = "invalid role"
	}
	if !model.IsValidUserStatus(in.Status) {
		fields["status"] = "status must be Active or Inactive"
	}
	if len(fields) > 0 {
		return newValidationError(fields)
	}
	return nil
}

// List returns all users, ordered by creation time. Requires CanViewUsers.
// Password hashes never leave the service in serialized form.
func (s *UserService) List(ctx context.Context, role model.Role) ([]model.User, error) {
	if err := authorize(role, CapViewUsers); err != nil {
		return nil, err
	}
	return s.queries.ListUsers(ctx)
}

// Get returns one user by id. Requires CanViewUsers.
func (s *UserService) Get(ctx context.Context, role model.Role, id int64) (model.User, error) {
	if err := authorize(role, CapViewUsers); err != nil {
		return model.User{}, err
	}
	return s.queries.GetUserByID(ctx, id)
}

// Create inserts a new user. Requires CanManageUsers. Username and email
// uniqueness is pre-checked inside a transaction; the insert still maps
// constraint failures to Conflict for the check-then-write race.
func (s *UserService) Create(ctx context.Context, role model.Role, in CreateUserInput) (model.User, error) {
	if err := authorize(role, CapManageUsers); err != nil {
		return model.User{}, err
	}
	if err := validateCreateUser(in); err != nil {
		return model.User{}, err
	}

	passwordHash, err := auth.HashPassword(in.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)

	if taken, err := qtx.CountUsername(ctx, in.Username, 0); err != nil {
		return model.User{}, err
	} else if taken > 0 {
		return model.User{}, ErrConflict
	}
	if taken, err := qtx.CountEmail(ctx, in.Email, 0); err != nil {
		return model.User{}, err
	} else if taken > 0 {
		return model.User{}, ErrConflict
	}

	now := time.Now()
	user, err := qtx.CreateUser(ctx, store.CreateUserParams{
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: passwordHash,
		Role:         in.Role,
		Status:       in.Status,
		Avatar:       in.Avatar,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return model.User{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.User{}, fmt.Errorf("committing user create: %w", err)
	}

	slog.Info("user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func validateUserUpdate(upd model.UserUpdate) error {
	fields := make(map[string]string)
	if upd.Name.Set && upd.Name.Value == "" {
		fields["name"] = "name cannot be empty"
	}
	if upd.Username.Set && upd.Username.Value == "" {
		fields["username"] = "username cannot be empty"
	}
	if upd.Email.Set && !model.IsValidEmail(upd.Email.Value) {
		fields["email"] = "invalid email format"
	}
	if upd.Password.Set && upd.Password.Value != "" && len(upd.Password.Value) < minPasswordLength {
		fields["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLength)
	}
	if upd.Role.Set && !model.IsValidRole(upd.Role.Value) {
		fields["role"] = "invalid role"
	}
	if upd.Status.Set && !model.IsValidUserStatus(upd.Status.Value) {
		fields["status"] = "status must be Active or Inactive"
	}
	if len(fields) > 0 {
		return newValidationError(fields)
	}
	return nil
}

// Update applies a partial update to the user with the given id. Requires
// CanManageUsers. Uniqueness checks exclude the row being updated, so
// re-submitting the current username or email is never a conflict. A set
// password re-hashes and replaces the stored hash; an absent one leaves it
// unchanged. The protected seed account cannot be renamed away from its
// username or demoted from Super Admin.
func (s *UserService) Update(ctx context.Context, role model.Role, id int64, upd model.UserUpdate) (model.User, error) {
	if err := authorize(role, CapManageUsers); err != nil {
		return model.User{}, err
	}
	if err := validateUserUpdate(upd); err != nil {
		return model.User{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)

	current, err := qtx.GetUserByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if current.IsProtected() {
		if upd.Username.Set && upd.Username.Value != current.Username {
			return model.User{}, ErrConflict
		}
		if upd.Role.Set && upd.Role.Value != model.RoleSuperAdmin {
			return model.User{}, ErrConflict
		}
	}

	if upd.Username.Set {
		if taken, err := qtx.CountUsername(ctx, upd.Username.Value, id); err != nil {
			return model.User{}, err
		} else if taken > 0 {
			return model.User{}, ErrConflict
		}
	}
	if upd.Email.Set {
		if taken, err := qtx.CountEmail(ctx, upd.Email.Value, id); err != nil {
			return model.User{}, err
		} else if taken > 0 {
			return model.User{}, ErrConflict
		}
	}

	passwordHash := ""
	if upd.Password.Set && upd.Password.Value != "" {
		passwordHash, err = auth.HashPassword(upd.Password.Value)
		if err != nil {
			return model.User{}, fmt.Errorf("hashing password: %w", err)
		}
	}

	user, err := qtx.UpdateUser(ctx, id, upd, passwordHash, time.Now())
	if err != nil {
		return model.User{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.User{}, fmt.Errorf("committing user update: %w", err)
	}

	slog.Info("user updated", "user_id", user.ID)
	return user, nil
}

// Delete removes a user by id. Requires CanManageUsers. Deleting the
// protected seed account fails with Conflict and leaves the row unchanged.
func (s *UserService) Delete(ctx context.Context, role model.Role, id int64) error {
	if err := authorize(role, CapManageUsers); err != nil {
		return err
	}

	user, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if user.IsProtected() {
		return ErrConflict
	}

	if err := s.queries.DeleteUser(ctx, id); err != nil {
		return err
	}

	slog.Info("user deleted", "user_id", id, "username", user.Username)
	return nil
}

// Authenticate verifies a username/password pair for session bootstrap.
// Returns ErrUnauthorized for unknown users, wrong passwords, and inactive
// accounts alike, so the failure mode does not reveal which one applied.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	user, err := s.queries.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.User{}, ErrUnauthorized
		}
		return model.User{}, err
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return model.User{}, ErrUnauthorized
	}
	if user.Status != model.UserStatusActive {
		return model.User{}, ErrUnauthorized
	}

	return user, nil
}
