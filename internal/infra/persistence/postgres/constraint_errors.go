package postgres

import (
	"fmt"

	"hrpm/internal/domain/repository"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// pgErrorCode extracts the SQLSTATE from a driver error, or "" when err is not a PgError.
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

func isUniqueConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || pgErrorCode(err) == pgerrcode.UniqueViolation
}

func isForeignKeyConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) || pgErrorCode(err) == pgerrcode.ForeignKeyViolation
}

func isNotNullConstraintViolation(err error) bool {
	return pgErrorCode(err) == pgerrcode.NotNullViolation
}

func isCheckConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrCheckConstraintViolated) || pgErrorCode(err) == pgerrcode.CheckViolation
}

// isRetryableConflict reports aborts caused by concurrent transactions.
func isRetryableConflict(err error) bool {
	switch pgErrorCode(err) {
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return true
	default:
		return false
	}
}

// asConcurrentUpdate tags retryable conflicts with repository.ErrConcurrentUpdate
// and leaves every other error untouched.
func asConcurrentUpdate(err error) error {
	if err == nil || !isRetryableConflict(err) {
		return err
	}

	return fmt.Errorf("%w: %w", repository.ErrConcurrentUpdate, err)
}
