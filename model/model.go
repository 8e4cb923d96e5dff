// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The boar-server Authors

// Package model defines how data models plug into the boar bootstrap and
// provides the shared database store they run against.
//
// Like controllers, models are registered explicitly at compile time:
// each model declares its name and schema, and the bootstrap applies the
// schemas through the store when the models are attached.
package model

import (
	"errors"
	"fmt"
)

// Model is implemented by every data model attached to the app.
type Model interface {
	// Name identifies the model (typically its table name). Must be
	// unique per app.
	Name() string

	// Schema returns the DDL that creates the model's storage. The
	// statement must be idempotent (CREATE TABLE IF NOT EXISTS ...), as
	// it runs on every boot.
	Schema() string
}

// ErrDuplicateModel is returned when two models share a name.
var ErrDuplicateModel = errors.New("duplicate model name")

// Registry collects models before their schemas are applied.
type Registry struct {
	models []Model
	names  map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		names: make(map[string]struct{}),
	}
}

// Register adds models to the registry, rejecting empty and duplicate
// names.
func (reg *Registry) Register(models ...Model) error {
	for _, m := range models {
		name := m.Name()
		if name == "" {
			return errors.New("model name must not be empty")
		}
		if _, ok := reg.names[name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateModel, name)
		}

		reg.names[name] = struct{}{}
		reg.models = append(reg.models, m)
	}

	return nil
}

// Models returns the registered models in registration order.
func (reg *Registry) Models() []Model {
	return reg.models
}

// Len returns the number of registered models.
func (reg *Registry) Len() int {
	return len(reg.models)
}
