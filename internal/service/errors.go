// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the authorization-gated data-access layer.
// Every operation resolves the caller's role to capabilities before any
// query is composed or executed, and surfaces failures as one of five
// distinct error kinds so callers can branch on retry / fix input / give up
// without inspecting message text.
package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/calyptra/studio-go/internal/store"
)

// Error kinds. Unauthorized never leaks whether the target resource
// exists; NotFound is only returned to callers who hold the capability.
// Storage errors propagate wrapped and unmodified in kind - they indicate a
// retryable engine failure, not bad input.
var (
	// ErrUnauthorized means the caller's role lacks the required capability.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound mirrors the store's not-found signal.
	ErrNotFound = store.ErrNotFound

	// ErrConflict covers uniqueness violations and attempts to delete or
	// demote the protected seed account.
	ErrConflict = store.ErrConflict
)

// ValidationError reports malformed input, field by field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// newValidationError builds a ValidationError from field messages.
func newValidationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

// AsValidation unwraps err into a ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
