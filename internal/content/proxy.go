// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content is a thin read-only proxy to the external headless CMS
// that serves blog, portfolio, and career content. The CMS is an opaque
// collaborator: responses pass through byte-for-byte, optionally cached.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/calyptra/studio-go/internal/cache"
)

// ErrUpstream indicates the CMS returned a non-success status.
var ErrUpstream = errors.New("upstream content error")

// maxResponseBytes caps proxied payloads.
const maxResponseBytes = 4 << 20

// Proxy fetches content from the CMS and caches successful responses.
type Proxy struct {
	base   *url.URL
	client *http.Client
	cache  cache.Cache
	ttl    time.Duration
}

// cachedResponse is the envelope stored in the cache.
type cachedResponse struct {
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// New creates a Proxy for the given CMS base URL. c may be nil to disable
// caching.
func New(baseURL string, c cache.Cache, ttl time.Duration) (*Proxy, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing content base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("content base URL must be http or https")
	}

	return &Proxy{
		base:   base,
		client: &http.Client{Timeout: 10 * time.Second},
		cache:  c,
		ttl:    ttl,
	}, nil
}

// Fetch retrieves one content path (with optional raw query) from the CMS.
// Returns the body and its content type. Only GET requests are issued.
func (p *Proxy) Fetch(ctx context.Context, path, rawQuery string) ([]byte, string, error) {
	path = "/" + strings.TrimLeft(path, "/")
	key := path
	if rawQuery != "" {
		key += "?" + rawQuery
	}

	if p.cache != nil {
		if data, err := p.cache.Get(ctx, key); err == nil {
			var cached cachedResponse
			if json.Unmarshal(data, &cached) == nil {
				return cached.Body, cached.ContentType, nil
			}
		}
	}

	target := *p.base
	target.Path = strings.TrimRight(target.Path, "/") + path
	target.RawQuery = rawQuery

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("building content request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, "", fmt.Errorf("reading content body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}

	if p.cache != nil {
		if data, err := json.Marshal(cachedResponse{ContentType: contentType, Body: body}); err == nil {
			_ = p.cache.Set(ctx, key, data, p.ttl)
		}
	}

	return body, contentType, nil
}
