package db

import (
	"errors"

	"restopos/internal/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE codes mapped onto apperror kinds.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgInvalidTextRep      = "22P02"
)

func sqlState(err error) (code, detail string, ok bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Message, true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.Message, true
	}

	return "", "", false
}

// TranslateError converts driver constraint violations into apperror kinds.
// Other errors are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	code, detail, ok := sqlState(err)
	if !ok {
		return err
	}

	switch code {
	case pgForeignKeyViolation:
		return apperror.NotFound("referenced record does not exist: " + detail)
	case pgUniqueViolation:
		return apperror.Conflict("record already exists: " + detail)
	case pgNotNullViolation, pgCheckViolation, pgInvalidTextRep:
		return apperror.Validation("invalid value: " + detail)
	}

	return err
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	code, _, ok := sqlState(err)
	return ok && code == pgUniqueViolation
}
