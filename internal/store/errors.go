// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Store-level error kinds. A get on a missing key fails with ErrNotFound;
// a list with no matches returns an empty slice and no error.
var (
	// ErrNotFound indicates the identified row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation (slug, username, email).
	ErrConflict = errors.New("conflict")
)

// mysqlDuplicateEntry is the MySQL error number for unique key violations.
const mysqlDuplicateEntry = 1062

// isUniqueViolation reports whether err is a unique-constraint failure from
// either storage engine. This is the fallback for the check-then-write race:
// the pre-check may pass and the write still collide, and the collision must
// surface as a conflict rather than a partial write.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}

	// modernc.org/sqlite surfaces constraint failures as plain text
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
