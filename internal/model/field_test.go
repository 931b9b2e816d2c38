// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
)

func TestFieldUnmarshalPresence(t *testing.T) {
	var upd ProjectUpdate
	body := `{"name": "New Name", "case_study_url": "", "tools": null}`
	if err := json.Unmarshal([]byte(body), &upd); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if !upd.Name.Set || upd.Name.Value != "New Name" {
		t.Errorf("Name = %+v, want set with New Name", upd.Name)
	}

	// Present-but-empty is set: distinguishes "clear" from "don't touch".
	if !upd.CaseStudyURL.Set || upd.CaseStudyURL.Value != "" {
		t.Errorf("CaseStudyURL = %+v, want set with empty value", upd.CaseStudyURL)
	}

	// JSON null is set and applies the zero value.
	if !upd.Tools.Set || upd.Tools.Value != nil {
		t.Errorf("Tools = %+v, want set with zero value", upd.Tools)
	}

	// Absent keys stay unset.
	if upd.Client.Set {
		t.Errorf("Client = %+v, want unset", upd.Client)
	}
	if upd.Status.Set {
		t.Errorf("Status = %+v, want unset", upd.Status)
	}
}

func TestFieldMarshal(t *testing.T) {
	set, err := json.Marshal(NewField("hello"))
	if err != nil {
		t.Fatalf("Marshal set: %v", err)
	}
	if string(set) != `"hello"` {
		t.Errorf("set field = %s, want \"hello\"", set)
	}

	unset, err := json.Marshal(Field[string]{})
	if err != nil {
		t.Fatalf("Marshal unset: %v", err)
	}
	if string(unset) != "null" {
		t.Errorf("unset field = %s, want null", unset)
	}
}

func TestFieldUnmarshalTypeMismatch(t *testing.T) {
	var f Field[int]
	if err := json.Unmarshal([]byte(`"not a number"`), &f); err == nil {
		t.Error("expected error for type mismatch")
	}
}
