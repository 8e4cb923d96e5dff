// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The boar-server Authors

// Package controller defines how route handlers plug into the boar
// bootstrap. A controller owns a URL prefix and registers its routes on a
// chi sub-router; the bootstrap mounts every registered controller when
// the application is assembled.
//
// Registration is explicit and happens at compile time. Go has no
// equivalent of scanning a directory for loadable route modules, so the
// registry is the seam where an application hands its controllers to the
// bootstrap.
package controller

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-chi/chi/v5"
)

// Controller is implemented by every route module mounted on the app.
type Controller interface {
	// Prefix returns the URL prefix the controller is mounted under,
	// e.g. "/api/users". Must start with "/" and be unique per app.
	Prefix() string

	// Routes registers the controller's handlers on its sub-router.
	Routes(r chi.Router)
}

// ErrDuplicatePrefix is returned when two controllers claim the same
// mount prefix.
var ErrDuplicatePrefix = errors.New("duplicate controller prefix")

// Registry collects controllers before they are mounted. The zero value
// is not usable; construct with NewRegistry.
type Registry struct {
	controllers []Controller
	prefixes    map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		prefixes: make(map[string]struct{}),
	}
}

// Register adds controllers to the registry, rejecting empty and
// duplicate prefixes.
func (reg *Registry) Register(controllers ...Controller) error {
	for _, c := range controllers {
		prefix := c.Prefix()
		if prefix == "" || prefix[0] != '/' {
			return fmt.Errorf("controller prefix %q must start with '/'", prefix)
		}
		if _, ok := reg.prefixes[prefix]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePrefix, prefix)
		}

		reg.prefixes[prefix] = struct{}{}
		reg.controllers = append(reg.controllers, c)
	}

	return nil
}

// MountAll mounts every registered controller on mux under its prefix,
// in registration order.
func (reg *Registry) MountAll(mux *chi.Mux) {
	for _, c := range reg.controllers {
		mux.Route(c.Prefix(), c.Routes)
	}
}

// Len returns the number of registered controllers.
func (reg *Registry) Len() int {
	return len(reg.controllers)
}

// Prefixes returns the sorted mount prefixes, mainly for logging.
func (reg *Registry) Prefixes() []string {
	prefixes := make([]string, 0, len(reg.prefixes))
	for p := range reg.prefixes {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	return prefixes
}
