package postgres

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	emperrors "github.com/wattline/emporia/pkg/errors"
)

// SQLSTATE codes the store maps to client-visible validation errors.
const (
	// UniqueViolationCode indicates a unique constraint violation.
	UniqueViolationCode = "23505"
	// ForeignKeyViolationCode indicates a foreign key violation.
	ForeignKeyViolationCode = "23503"
	// NotNullViolationCode indicates a null value in a NOT NULL column.
	NotNullViolationCode = "23502"
	// CheckViolationCode indicates a check constraint violation.
	CheckViolationCode = "23514"
)

// AsPgError unwraps err to the server-reported *pgconn.PgError, if any.
func AsPgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// mapError classifies a driver error for the HTTP layer: constraint
// violations become validation errors, connectivity failures become
// service unavailable, anything else is internal. Missing rows are the
// callers' concern; they translate pgx.ErrNoRows to emporia.ErrNotFound
// before mapping.
func mapError(op string, err error) error {
	if pe, ok := AsPgError(err); ok {
		switch pe.Code {
		case UniqueViolationCode, ForeignKeyViolationCode, NotNullViolationCode, CheckViolationCode:
			return emperrors.WrapWithContext(emperrors.ErrCodeValidation,
				op+" rejected by database constraint", err,
				map[string]any{"constraint": pe.ConstraintName, "sqlstate": pe.Code})
		}
		return emperrors.WrapWithContext(emperrors.ErrCodeInternal,
			op+" failed", err,
			map[string]any{"sqlstate": pe.Code})
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.As(err, &connErr), errors.As(err, &netErr),
		errors.Is(err, context.DeadlineExceeded):
		return emperrors.Wrap(emperrors.ErrCodeUnavailable, "database unreachable", err)
	}

	return emperrors.Wrap(emperrors.ErrCodeInternal, op+" failed", err)
}
