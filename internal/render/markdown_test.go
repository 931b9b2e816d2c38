// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"strings"
	"testing"
)

func TestMarkdown(t *testing.T) {
	html, err := Markdown("# Heading\n\nSome **bold** text and a [link](https://example.com).")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	for _, want := range []string{"<h1", "Heading", "<strong>bold</strong>", `href="https://example.com"`} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q:\n%s", want, html)
		}
	}
}

func TestMarkdownStripsScripts(t *testing.T) {
	html, err := Markdown("safe\n\n<script>alert('xss')</script>\n\n<img src=x onerror=alert(1)>")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if strings.Contains(html, "<script") {
		t.Errorf("script tag survived sanitization:\n%s", html)
	}
	if strings.Contains(html, "onerror") {
		t.Errorf("event handler survived sanitization:\n%s", html)
	}
}

func TestMarkdownEmpty(t *testing.T) {
	html, err := Markdown("")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if strings.TrimSpace(html) != "" {
		t.Errorf("empty input produced %q", html)
	}
}
