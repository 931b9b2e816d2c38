// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"
)

func TestStringListValue(t *testing.T) {
	tests := []struct {
		name string
		list StringList
		want string
	}{
		{"nil encodes as empty array", nil, "[]"},
		{"empty encodes as empty array", StringList{}, "[]"},
		{"values", StringList{"Go", "React"}, `["Go","React"]`},
		{"preserves order and duplicates", StringList{"b", "a", "b"}, `["b","a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.list.Value()
			if err != nil {
				t.Fatalf("Value: %v", err)
			}
			if v != tt.want {
				t.Errorf("Value() = %v, want %q", v, tt.want)
			}
		})
	}
}

func TestStringListScan(t *testing.T) {
	var l StringList
	if err := l.Scan(`["x","y"]`); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(l) != 2 || l[0] != "x" || l[1] != "y" {
		t.Errorf("l = %v, want [x y]", l)
	}

	// NULL and empty both decode to the empty list, never nil.
	if err := l.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if l == nil || len(l) != 0 {
		t.Errorf("after Scan(nil): %#v, want empty non-nil", l)
	}

	if err := l.Scan([]byte("")); err != nil {
		t.Fatalf("Scan(empty): %v", err)
	}
	if l == nil || len(l) != 0 {
		t.Errorf("after Scan(empty): %#v, want empty non-nil", l)
	}

	if err := l.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
	if err := l.Scan("{not json"); err == nil {
		t.Error("Scan(malformed) should fail")
	}
}

func TestIsValidProjectStatus(t *testing.T) {
	for _, s := range ValidProjectStatuses {
		if !IsValidProjectStatus(s) {
			t.Errorf("IsValidProjectStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "ongoing", "Done", "COMPLETED"} {
		if IsValidProjectStatus(s) {
			t.Errorf("IsValidProjectStatus(%q) = true, want false", s)
		}
	}
}

func TestIsCompleted(t *testing.T) {
	p := Project{Status: ProjectStatusCompleted}
	if !p.IsCompleted() {
		t.Error("IsCompleted = false for Completed project")
	}
	p.Status = ProjectStatusPlanning
	if p.IsCompleted() {
		t.Error("IsCompleted = true for Planning project")
	}
}
