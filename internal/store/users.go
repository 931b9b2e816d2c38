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

const userFields = `id, name, username, email, password_hash, role, status, avatar, created_at, updated_at`

func scanUser(s scanner) (model.User, error) {
	var u model.User
	err := s.Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash,
		&u.Role, &u.Status, &u.Avatar, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// CreateUserParams holds the fields for a new user row. PasswordHash must
// already be hashed; the store never sees plaintext passwords.
type CreateUserParams struct {
	Name         string
	Username     string
	Email        string
	PasswordHash string
	Role         model.Role
	Status       string
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUser inserts a user row and returns the stored record. A
// unique-constraint failure on username or email surfaces as ErrConflict.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO users (name, username, email, password_hash, role, status, avatar, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.Username, arg.Email, arg.PasswordHash, arg.Role, arg.Status, arg.Avatar,
		arg.CreatedAt, arg.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, ErrConflict
		}
		return model.User{}, fmt.Errorf("inserting user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, fmt.Errorf("reading inserted user id: %w", err)
	}

	return q.GetUserByID(ctx, id)
}

// GetUserByID fetches a single user by id.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userFields+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("getting user %d: %w", id, err)
	}
	return u, nil
}

// GetUserByUsername fetches a single user by username.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userFields+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("getting user %q: %w", username, err)
	}
	return u, nil
}

// ListUsers returns all users ordered by creation time.
func (q *Queries) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+userFields+` FROM users ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser applies a partial update to the user with the given id and
// returns the resulting record. The password field is handled by the
// service layer, which passes the new hash via passwordHash when a
// replacement was requested; an empty passwordHash leaves the stored hash
// unchanged.
func (q *Queries) UpdateUser(ctx context.Context, id int64, upd model.UserUpdate, passwordHash string, now time.Time) (model.User, error) {
	b := newUpdateBuilder(userColumns)
	if upd.Name.Set {
		b.Set("name", upd.Name.Value)
	}
	if upd.Username.Set {
		b.Set("username", upd.Username.Value)
	}
	if upd.Email.Set {
		b.Set("email", upd.Email.Value)
	}
	if upd.Role.Set {
		b.Set("role", upd.Role.Value)
	}
	if upd.Status.Set {
		b.Set("status", upd.Status.Value)
	}
	if upd.Avatar.Set {
		b.Set("avatar", upd.Avatar.Value)
	}
	if passwordHash != "" {
		b.Set("password_hash", passwordHash)
	}

	if b.Empty() {
		return q.GetUserByID(ctx, id)
	}

	b.Set("updated_at", now)
	query, args, err := b.SQL("users", "id", id)
	if err != nil {
		return model.User{}, err
	}

	if _, err := q.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return model.User{}, ErrConflict
		}
		return model.User{}, fmt.Errorf("updating user %d: %w", id, err)
	}

	return q.GetUserByID(ctx, id)
}

// DeleteUser removes a user by id. Deleting a missing id fails with
// ErrNotFound. The protected-account rule lives in the service layer so it
// applies uniformly regardless of caller.
func (q *Queries) DeleteUser(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountUsername counts users holding the username, excluding the row with
// excludeID so self-collisions on update are not flagged.
func (q *Queries) CountUsername(ctx context.Context, username string, excludeID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ? AND id != ?`, username, excludeID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting username %q: %w", username, err)
	}
	return n, nil
}

// CountEmail counts users holding the email, excluding the row with
// excludeID.
func (q *Queries) CountEmail(ctx context.Context, email string, excludeID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ? AND id != ?`, email, excludeID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting email %q: %w", email, err)
	}
	return n, nil
}
