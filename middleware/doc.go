// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The boar-server Authors

// Package middleware implements the HTTP middleware installed by the boar
// bootstrap: request-id tagging, access logging, panic recovery,
// security-header injection, SSL enforcement, method override, body size
// limiting, transparent gzip, CORS, and bearer-token authentication.
//
// Every middleware is a plain func(http.Handler) http.Handler so it
// composes with chi's Use chain and with any other net/http router.
package middleware
