// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The boar-server Authors

// Package logger provides a thin wrapper around zerolog.Logger used by the
// boar bootstrap and by applications built on top of it.
//
// The Logger type embeds zerolog.Logger so the full zerolog API (Debug,
// Info, Warn, Error, Fatal, ...) is available directly on *Logger. The
// bootstrap attaches a request-scoped logger to every request context; HTTP
// handlers should obtain it via FromRequest or FromContext instead of
// logging through a package-level logger.
package logger

import (
	"context"
	"net/http"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger. Embedding the upstream
// type exposes its full API while leaving room for helper methods.
type Logger struct {
	zerolog.Logger
}

// New constructs a *Logger for the given component label (e.g. "boar",
// "server", "worker").
//
// The logger writes JSON to os.Stdout and stamps every entry with:
//   - a "component" field set to component;
//   - a "ts" timestamp;
//   - a "func" caller field holding the fully-qualified function name.
func New(component string) *Logger {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	l := zerolog.New(os.Stdout).With().
		Str("component", component).
		Timestamp().
		Caller().
		Logger()

	return &Logger{l}
}

// Nop returns a *Logger that discards all output. Intended for tests and
// for callers that opt out of bootstrap logging.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// Child returns a new *Logger that inherits all fields of the receiver.
// The child can be enriched with additional context fields without
// affecting the parent.
func (l *Logger) Child() *Logger {
	return &Logger{l.With().Logger()}
}

// FromRequest extracts the request-scoped logger attached to r's context by
// the request-id middleware. If no logger was attached, the global zerolog
// logger is returned, so the result is never nil.
func FromRequest(r *http.Request) *Logger {
	return &Logger{*log.Ctx(r.Context())}
}

// FromContext extracts the logger stored in ctx. If no logger has been
// attached, zerolog falls back to its global logger, so this never returns
// nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
