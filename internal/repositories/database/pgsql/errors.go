package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nakamart/nakamart_backend/internal/apperrors"
)

// SQLSTATE codes that signal the transaction lost a race and may be retried.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
)

// mapStoreErr translates a pgx error into the store contract's error kinds.
// Serialization failures become ErrConflict so the retry driver can absorb
// them; everything else infrastructure-shaped becomes ErrStoreUnavailable.
func mapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected:
			return fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
		case codeUniqueViolation:
			return fmt.Errorf("%w: %v", apperrors.ErrDuplicate, err)
		}
	}
	return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
}
