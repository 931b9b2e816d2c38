// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

const (
	uaFirefoxLinux = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"
	uaSafariIPhone = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.5 Mobile/15E148 Safari/604.1"
	uaGooglebot    = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func TestTrackRequiresPath(t *testing.T) {
	env := newTestEnv(t)

	err := env.visits.Track(context.Background(), VisitInput{Path: "   "})
	verr, ok := AsValidation(err)
	if !ok {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if _, present := verr.Fields["path"]; !present {
		t.Errorf("Fields = %v, want path message", verr.Fields)
	}

	n, _ := env.queries.CountVisits(context.Background())
	if n != 0 {
		t.Errorf("visit count = %d after rejected event, want 0", n)
	}
}

func TestTrackGeneratesVisitorID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	in := VisitInput{Path: "/about", UserAgent: uaFirefoxLinux}
	if err := env.visits.Track(ctx, in); err != nil {
		t.Fatalf("Track: %v", err)
	}

	visits, err := env.queries.RecentVisits(ctx, 10)
	if err != nil {
		t.Fatalf("RecentVisits: %v", err)
	}
	if len(visits) != 1 {
		t.Fatalf("len(visits) = %d, want 1", len(visits))
	}
	if _, err := uuid.Parse(visits[0].VisitorID); err != nil {
		t.Errorf("VisitorID %q is not a UUID: %v", visits[0].VisitorID, err)
	}
}

func TestTrackPreservesProvidedVisitorID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	in := VisitInput{Path: "/", VisitorID: "known-visitor", UserAgent: uaFirefoxLinux}
	if err := env.visits.Track(ctx, in); err != nil {
		t.Fatalf("Track: %v", err)
	}

	visits, _ := env.queries.RecentVisits(ctx, 1)
	if visits[0].VisitorID != "known-visitor" {
		t.Errorf("VisitorID = %q, want known-visitor", visits[0].VisitorID)
	}
}

func TestTrackClassifiesDevices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		ua   string
		want string
	}{
		{uaFirefoxLinux, "desktop"},
		{uaSafariIPhone, "mobile"},
		{uaGooglebot, "bot"},
		{"", "desktop"},
	}
	for i, tt := range tests {
		in := VisitInput{Path: "/device-check", VisitorID: "v", UserAgent: tt.ua}
		if err := env.visits.Track(ctx, in); err != nil {
			t.Fatalf("Track #%d: %v", i, err)
		}
	}

	visits, err := env.queries.RecentVisits(ctx, int64(len(tests)))
	if err != nil {
		t.Fatalf("RecentVisits: %v", err)
	}
	// RecentVisits is newest-first; the table above inserted oldest-first.
	for i, tt := range tests {
		got := visits[len(visits)-1-i].DeviceType
		if got != tt.want {
			t.Errorf("device for %.30q = %q, want %q", tt.ua, got, tt.want)
		}
	}
}

func TestTrackTrimsFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	in := VisitInput{
		Path:      "  /projects  ",
		Referrer:  "  https://news.example.com/post  ",
		VisitorID: "v",
		UserAgent: uaFirefoxLinux,
	}
	if err := env.visits.Track(ctx, in); err != nil {
		t.Fatalf("Track: %v", err)
	}

	visits, _ := env.queries.RecentVisits(ctx, 1)
	if visits[0].Path != "/projects" {
		t.Errorf("Path = %q, want /projects", visits[0].Path)
	}
	if visits[0].Referrer != "https://news.example.com/post" {
		t.Errorf("Referrer = %q, want trimmed URL", visits[0].Referrer)
	}
}
