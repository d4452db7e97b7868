package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes mapped to domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// Errors names the domain errors a repository maps database failures onto.
// A nil field leaves the corresponding database error unchanged.
type Errors struct {
	NotFound  error
	Duplicate error
	Invalid   error
}

// MapError translates database errors to domain errors. sql.ErrNoRows maps to
// NotFound, unique violations to Duplicate, and check or foreign key violations
// to Invalid. Unmapped errors are returned unchanged.
func (e Errors) MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) && e.NotFound != nil {
		return e.NotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		if e.Duplicate != nil {
			return e.Duplicate
		}
	case pgCheckViolation, pgForeignKeyViolation:
		if e.Invalid != nil {
			return e.Invalid
		}
	}

	return err
}
