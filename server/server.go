// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The boar-server Authors

// Package server tracks the HTTP and HTTPS listeners started by the boar
// bootstrap. Every started listener is held in a Group; closing the group
// shuts all of them down concurrently and returns once the last one has
// stopped.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ejgyurisan/boar-server/logger"
)

// Handle is one actively listening server. The invariant maintained by
// Group is that a handle present in the group is listening: handles are
// added after the socket is bound and removed when the group closes.
type Handle struct {
	srv *http.Server
	ln  net.Listener
	tls bool
}

// Addr returns the listener's bound address, e.g. "[::]:3000". Useful
// when the server was started on port 0.
func (h *Handle) Addr() string {
	return h.ln.Addr().String()
}

// TLS reports whether the handle serves HTTPS.
func (h *Handle) TLS() bool {
	return h.tls
}

// Group tracks active listeners.
type Group struct {
	mu      sync.Mutex
	handles []*Handle
	log     *logger.Logger

	requestTimeout time.Duration
}

// NewGroup constructs an empty listener group. requestTimeout, when
// positive, is applied as the read and write timeout of every started
// server.
func NewGroup(log *logger.Logger, requestTimeout time.Duration) *Group {
	return &Group{
		log:            log,
		requestTimeout: requestTimeout,
	}
}

// Len returns the number of active listeners.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.handles)
}

// Handles returns a snapshot of the active listeners.
func (g *Group) Handles() []*Handle {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Handle(nil), g.handles...)
}

// ListenHTTP binds addr and starts serving handler on it. The socket is
// bound synchronously, so a bad port surfaces here; Serve then runs on a
// goroutine until the group closes.
func (g *Group) ListenHTTP(addr string, handler http.Handler) (*Handle, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	return g.track(ln, handler, false), nil
}

// ListenTLS binds addr and starts serving handler over TLS with the given
// configuration.
func (g *Group) ListenTLS(addr string, handler http.Handler, tlsCfg *tls.Config) (*Handle, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	return g.track(tls.NewListener(ln, tlsCfg), handler, true), nil
}

func (g *Group) track(ln net.Listener, handler http.Handler, isTLS bool) *Handle {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       g.requestTimeout,
		WriteTimeout:      g.requestTimeout,
	}

	h := &Handle{srv: srv, ln: ln, tls: isTLS}

	g.mu.Lock()
	g.handles = append(g.handles, h)
	g.mu.Unlock()

	g.log.Info().Str("addr", h.Addr()).Bool("tls", isTLS).Msg("listener started")

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.log.Err(err).Str("addr", h.Addr()).Msg("server stopped unexpectedly")
		}
	}()

	return h
}

// Close gracefully shuts down every tracked listener concurrently and
// returns once all of them have stopped, joining any shutdown errors.
// Closing an empty group is a no-op. The group is empty afterwards and
// can be reused.
func (g *Group) Close(ctx context.Context) error {
	g.mu.Lock()
	handles := g.handles
	g.handles = nil
	g.mu.Unlock()

	if len(handles) == 0 {
		return nil
	}

	errs := make([]error, len(handles))
	var wg sync.WaitGroup
	for i, h := range handles {
		wg.Add(1)
		go func(i int, h *Handle) {
			defer wg.Done()
			errs[i] = h.srv.Shutdown(ctx)
		}(i, h)
	}
	wg.Wait()

	g.log.Info().Int("listeners", len(handles)).Msg("all listeners closed")

	return errors.Join(errs...)
}
