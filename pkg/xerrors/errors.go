package xerrors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Generic
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternalServer = errors.New("internal server error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input provided")
)

// Ledger / balance
var (
	ErrInvalidDirection = errors.New("invalid effect direction")
	ErrAccountExists    = errors.New("liquidity account name already in use")
)

// Error pairs a sentinel with the message shown to the caller, so handlers
// can classify with errors.Is while surfacing entity-specific text.
type Error struct {
	Sentinel error
	Msg      string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Sentinel }

func NotFoundf(format string, args ...any) error {
	return &Error{Sentinel: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func InvalidInputf(format string, args ...any) error {
	return &Error{Sentinel: ErrInvalidInput, Msg: fmt.Sprintf(format, args...)}
}

func ParsePGErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code // e.g. 23505 for unique_violation
	}
	return "unknown"
}
