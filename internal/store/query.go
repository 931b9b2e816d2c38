// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"fmt"
	"strings"
)

// FilterAll is the sentinel facet value meaning "no constraint on this
// field". An absent or empty value means the same thing.
const FilterAll = "All"

// Column allow-lists. Every identifier that reaches query text is validated
// against one of these fixed enumerations first; filter and update values
// themselves only ever travel as bound parameters.
var (
	projectColumns = map[string]bool{
		"slug": true, "name": true, "client": true, "status": true,
		"date": true, "impact_area": true, "service_type": true,
		"image": true, "project_overview": true, "scope_of_work": true,
		"project_summary": true, "project_url": true, "case_study_url": true,
		"tools": true, "media_files": true, "updated_at": true,
	}

	userColumns = map[string]bool{
		"name": true, "username": true, "email": true, "password_hash": true,
		"role": true, "status": true, "avatar": true, "updated_at": true,
	}
)

// whereBuilder accumulates an AND-joined conjunction of conditions. Values
// are appended as bound parameters only; column names must come from the
// builder's allow-list or composition fails.
type whereBuilder struct {
	allowed map[string]bool
	conds   []string
	args    []any
	err     error
}

func newWhereBuilder(allowed map[string]bool) *whereBuilder {
	return &whereBuilder{allowed: allowed}
}

func (b *whereBuilder) checkColumn(col string) bool {
	if !b.allowed[col] {
		if b.err == nil {
			b.err = fmt.Errorf("column %q not allowed in filter", col)
		}
		return false
	}
	return true
}

// Eq adds an equality condition.
func (b *whereBuilder) Eq(col string, v any) *whereBuilder {
	if !b.checkColumn(col) {
		return b
	}
	b.conds = append(b.conds, col+" = ?")
	b.args = append(b.args, v)
	return b
}

// Facet adds an equality condition unless the value is empty or the
// FilterAll sentinel, which both mean "no constraint".
func (b *whereBuilder) Facet(col, value string) *whereBuilder {
	if value == "" || value == FilterAll {
		return b
	}
	return b.Eq(col, value)
}

// escapeLike neutralizes LIKE wildcards so search terms match as literal
// substrings. The escape character is '!': a backslash inside an ESCAPE
// literal does not parse the same way on sqlite and mysql.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "!", "!!")
	s = strings.ReplaceAll(s, "%", "!%")
	s = strings.ReplaceAll(s, "_", "!_")
	return s
}

// Search adds a case-insensitive substring match OR-ed across the given
// columns, AND-ed with all other conditions. Empty terms are ignored;
// wildcard characters in the term are matched literally.
func (b *whereBuilder) Search(term string, cols ...string) *whereBuilder {
	term = strings.TrimSpace(term)
	if term == "" || len(cols) == 0 {
		return b
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	parts := make([]string, 0, len(cols))
	for _, col := range cols {
		if !b.checkColumn(col) {
			return b
		}
		parts = append(parts, "LOWER("+col+") LIKE ? ESCAPE '!'")
		b.args = append(b.args, pattern)
	}
	b.conds = append(b.conds, "("+strings.Join(parts, " OR ")+")")
	return b
}

// Clause returns the composed WHERE clause (with leading " WHERE ", or the
// empty string when no conditions are active) and its bound arguments.
func (b *whereBuilder) Clause() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	if len(b.conds) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(b.conds, " AND "), b.args, nil
}

// updateBuilder accumulates SET assignments for a partial update. Only
// fields explicitly added become assignment clauses, so omitted request
// fields retain their prior value while present-but-empty fields are still
// applied.
type updateBuilder struct {
	allowed map[string]bool
	assigns []string
	args    []any
	err     error
}

func newUpdateBuilder(allowed map[string]bool) *updateBuilder {
	return &updateBuilder{allowed: allowed}
}

// Set adds one assignment clause with a bound value.
func (b *updateBuilder) Set(col string, v any) *updateBuilder {
	if !b.allowed[col] {
		if b.err == nil {
			b.err = fmt.Errorf("column %q not allowed in update", col)
		}
		return b
	}
	b.assigns = append(b.assigns, col+" = ?")
	b.args = append(b.args, v)
	return b
}

// Empty reports whether no assignments were added. An update with zero
// assignment clauses is a no-op success for callers, not an error.
func (b *updateBuilder) Empty() bool {
	return len(b.assigns) == 0
}

// SQL returns the full UPDATE statement keyed by keyCol and its arguments.
func (b *updateBuilder) SQL(table, keyCol string, key any) (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", table, strings.Join(b.assigns, ", "), keyCol)
	args := append(append([]any{}, b.args...), key)
	return query, args, nil
}
