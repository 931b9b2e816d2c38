// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "encoding/json"

// Field is a presence-tracked optional used by partial-update requests.
// A field that is absent from the request body is left untouched; a field
// that is present, even with an empty or null value, is applied. This keeps
// "don't touch" and "clear this field" distinguishable.
type Field[T any] struct {
	Value T
	Set   bool
}

// NewField returns a set Field holding v.
func NewField[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// UnmarshalJSON is only invoked for keys present in the payload, so its
// mere execution marks the field as set. A JSON null applies the zero value.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON encodes the held value; unset fields encode as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
