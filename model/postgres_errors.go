package model

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification indicates whether a failed database operation
// should be retried or abandoned.
type ErrorClassification int

const (
	// NonRetryable is the default classification: constraint violations,
	// syntax errors, data exceptions, and anything unrecognised.
	NonRetryable ErrorClassification = iota

	// Retryable marks failures that may succeed on a second attempt,
	// e.g. transient connection loss or a deadlock rollback.
	Retryable
)

// ErrorClassifier decides whether a database error is worth retrying.
type ErrorClassifier interface {
	Classify(err error) ErrorClassification
}

// PostgresErrorClassifier implements [ErrorClassifier] for PostgreSQL by
// inspecting the pgconn error code returned by the pgx driver.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify unwraps err as a *pgconn.PgError and delegates to
// [ClassifyPgError]. Nil and non-postgres errors are NonRetryable.
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return NonRetryable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ClassifyPgError(pgErr)
	}

	return NonRetryable
}

// ClassifyPgError maps a *pgconn.PgError to an [ErrorClassification].
// See https://www.postgresql.org/docs/current/errcodes-appendix.html.
//
// Retryable codes:
//   - Class 08 — connection exceptions
//   - Class 40 — transaction rollback, serialization failure, deadlock
//   - 57P03    — cannot connect now
func ClassifyPgError(pgErr *pgconn.PgError) ErrorClassification {
	switch pgErr.Code {
	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure,
		pgerrcode.TransactionRollback,
		pgerrcode.SerializationFailure,
		pgerrcode.DeadlockDetected,
		pgerrcode.CannotConnectNow:
		return Retryable
	}

	return NonRetryable
}

// nonRetryableClassifier is used for backends without a retry story
// (sqlite); every failure is final.
type nonRetryableClassifier struct{}

func (nonRetryableClassifier) Classify(error) ErrorClassification {
	return NonRetryable
}
