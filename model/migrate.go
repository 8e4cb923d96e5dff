package model

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// Migrate runs the goose migrations found in dir of fsys (typically an
// embed.FS shipped by the application) against the store, using the
// dialect matching the store's driver.
func (s *Store) Migrate(fsys fs.FS, dir string) error {
	if s.DB == nil {
		return errors.New("migration error: db is nil")
	}

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(s.driver); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(s.DB, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
