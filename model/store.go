package model

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ejgyurisan/boar-server/logger"
)

// Store is the shared database handle attached models run against. It
// embeds *sql.DB, so models use the full database/sql API, plus a squirrel
// statement builder preconfigured for the backend's placeholder format.
type Store struct {
	*sql.DB

	driver     string
	classifier ErrorClassifier
	log        *logger.Logger
}

const (
	driverPostgres = "pgx"
	driverSQLite   = "sqlite3"
)

// driverForDSN selects the driver from the DSN scheme: postgres:// and
// postgresql:// use the pgx stdlib driver, everything else is opened as
// an SQLite file.
func driverForDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return driverPostgres
	}
	return driverSQLite
}

// Open connects to the database described by dsn, verifies the connection
// with a ping, and returns a ready Store.
func Open(ctx context.Context, dsn string, log *logger.Logger) (*Store, error) {
	driver := driverForDSN(dsn)

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		log.Err(err).Str("driver", driver).Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		log.Err(err).Str("driver", driver).Msg("error connecting database (ping)")
		return nil, fmt.Errorf("error connecting database (ping): %w", err)
	}
	log.Info().Str("driver", driver).Msg("connected to database successfully")

	return NewStoreWithDB(conn, driver, log), nil
}

// NewStoreWithDB wraps an already-open connection. Used by Open and by
// tests that supply an sqlmock connection.
func NewStoreWithDB(db *sql.DB, driver string, log *logger.Logger) *Store {
	s := &Store{
		DB:     db,
		driver: driver,
		log:    log,
	}

	if driver == driverPostgres {
		s.classifier = NewPostgresErrorClassifier()
	} else {
		s.classifier = nonRetryableClassifier{}
	}

	return s
}

// Driver returns the database/sql driver name the store was opened with.
func (s *Store) Driver() string {
	return s.driver
}

// Builder returns a squirrel statement builder using the placeholder
// format of the store's backend ($1 for postgres, ? for sqlite).
func (s *Store) Builder() sq.StatementBuilderType {
	if s.driver == driverPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// EnsureSchemas applies the schema of every registered model. Schemas are
// expected to be idempotent, so this is safe to run on every boot.
func (s *Store) EnsureSchemas(ctx context.Context, reg *Registry) error {
	for _, m := range reg.Models() {
		if _, err := s.ExecContext(ctx, m.Schema()); err != nil {
			return fmt.Errorf("error applying schema for model %q: %w", m.Name(), err)
		}
		s.log.Debug().Str("model", m.Name()).Msg("model schema ensured")
	}

	return nil
}

// WithRetry runs fn up to attempts times, retrying only when the store's
// error classifier marks the failure as retryable (connection loss,
// deadlock, serialization failure on postgres).
func (s *Store) WithRetry(ctx context.Context, attempts int, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if s.classifier.Classify(err) != Retryable {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		s.log.Warn().Err(err).Int("attempt", i+1).Msg("retrying database operation")
	}

	return err
}

// Name implements the health-check interface; the store registers itself
// on the built-in health controller when models are attached.
func (s *Store) Name() string {
	return "database"
}

// Ping implements the health-check interface.
func (s *Store) Ping(ctx context.Context) error {
	return s.PingContext(ctx)
}
