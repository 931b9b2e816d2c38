// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by Queries, satisfied by both
// *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries provides typed access to the store tables.
type Queries struct {
	db      DBTX
	dialect string
}

// New creates a Queries bound to the given database handle, assuming the
// SQLite dialect.
func New(db DBTX) *Queries {
	return &Queries{db: db, dialect: DriverSQLite}
}

// NewWithDialect creates a Queries for a specific storage driver. Only a
// handful of aggregation expressions differ between engines.
func NewWithDialect(db DBTX, dialect string) *Queries {
	return &Queries{db: db, dialect: dialect}
}

// WithTx returns a Queries bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx, dialect: q.dialect}
}
