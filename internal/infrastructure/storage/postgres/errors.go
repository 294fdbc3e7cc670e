package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes used for translating constraint
// violations into application errors.
const (
	PgCodeForeignKeyViolation = "23503"
	PgCodeUniqueViolation     = "23505"
	PgCodeCheckViolation      = "23514"
)

// AsPgError returns the pgconn.PgError if err wraps one.
func AsPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsUniqueViolation reports whether err is a unique constraint violation.
// constraint narrows the check to a specific constraint name ("" matches any).
func IsUniqueViolation(err error, constraint string) bool {
	pgErr, ok := AsPgError(err)
	if !ok || pgErr.Code != PgCodeUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	pgErr, ok := AsPgError(err)
	return ok && pgErr.Code == PgCodeForeignKeyViolation
}
