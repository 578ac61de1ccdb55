package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

var (
	// ErrNotFound is returned when a lookup matches no row. It is pgx.ErrNoRows so callers can
	// test for either.
	ErrNotFound = pgx.ErrNoRows
	// ErrDuplicateEmail is returned when a user's email is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrStatusConflict is returned when a booking is no longer in the expected status.
	ErrStatusConflict = errors.New("booking status already decided")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
