// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The boar-server Authors

package middleware

import (
	"fmt"
	"net/http"
	"time"
)

// SecurityHeadersConfig controls the headers injected by
// [SecurityHeaders]. The zero value yields the defaults documented on
// each field.
type SecurityHeadersConfig struct {
	// FrameOptions is the X-Frame-Options value. Default "DENY".
	FrameOptions string

	// ReferrerPolicy is the Referrer-Policy value.
	// Default "strict-origin-when-cross-origin".
	ReferrerPolicy string

	// ContentSecurityPolicy is sent as-is when non-empty. No default.
	ContentSecurityPolicy string

	// HSTSMaxAge sets the Strict-Transport-Security max-age. The header
	// is only sent on requests that arrived over TLS (or behind a proxy
	// that set X-Forwarded-Proto: https). Default 180 days.
	HSTSMaxAge time.Duration

	// HSTSIncludeSubdomains appends includeSubDomains to the HSTS header.
	HSTSIncludeSubdomains bool
}

const defaultHSTSMaxAge = 180 * 24 * time.Hour

// SecurityHeaders injects a conservative set of security response headers
// on every request: X-Content-Type-Options: nosniff, X-Frame-Options,
// Referrer-Policy, optionally Content-Security-Policy, and
// Strict-Transport-Security for TLS traffic.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	if cfg.FrameOptions == "" {
		cfg.FrameOptions = "DENY"
	}
	if cfg.ReferrerPolicy == "" {
		cfg.ReferrerPolicy = "strict-origin-when-cross-origin"
	}
	if cfg.HSTSMaxAge == 0 {
		cfg.HSTSMaxAge = defaultHSTSMaxAge
	}

	hsts := fmt.Sprintf("max-age=%d", int(cfg.HSTSMaxAge.Seconds()))
	if cfg.HSTSIncludeSubdomains {
		hsts += "; includeSubDomains"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", cfg.FrameOptions)
			h.Set("Referrer-Policy", cfg.ReferrerPolicy)
			if cfg.ContentSecurityPolicy != "" {
				h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			}
			if isTLS(r) {
				h.Set("Strict-Transport-Security", hsts)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isTLS reports whether the request arrived over TLS, either directly or
// via a proxy that set X-Forwarded-Proto.
func isTLS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return r.Header.Get("X-Forwarded-Proto") == "https"
}
