package postgres

import (
	"testing"

	domainerrors "hrpm/internal/domain/errors"
	"hrpm/internal/domain/repository"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestConstraintClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		unique    bool
		fk        bool
		notNull   bool
		check     bool
		retryable bool
	}{
		{name: "unique pg", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, unique: true},
		{name: "unique gorm", err: gorm.ErrDuplicatedKey, unique: true},
		{name: "foreign key", err: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, fk: true},
		{name: "not null", err: &pgconn.PgError{Code: pgerrcode.NotNullViolation}, notNull: true},
		{name: "check", err: &pgconn.PgError{Code: pgerrcode.CheckViolation}, check: true},
		{name: "serialization", err: &pgconn.PgError{Code: pgerrcode.SerializationFailure}, retryable: true},
		{name: "deadlock", err: &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, retryable: true},
		{name: "wrapped", err: errors.Wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation}, "insert"), unique: true},
		{name: "plain", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, isUniqueConstraintViolation(tt.err))
			assert.Equal(t, tt.fk, isForeignKeyConstraintViolation(tt.err))
			assert.Equal(t, tt.notNull, isNotNullConstraintViolation(tt.err))
			assert.Equal(t, tt.check, isCheckConstraintViolation(tt.err))
			assert.Equal(t, tt.retryable, isRetryableConflict(tt.err))
		})
	}
}

func TestAsConcurrentUpdate(t *testing.T) {
	assert.NoError(t, asConcurrentUpdate(nil))

	plain := errors.New("boom")
	assert.Same(t, plain, asConcurrentUpdate(plain))

	pgErr := &pgconn.PgError{Code: pgerrcode.SerializationFailure}
	wrapped := asConcurrentUpdate(domainerrors.NewDatabaseExecuteError(pgErr, "update"))
	assert.ErrorIs(t, wrapped, repository.ErrConcurrentUpdate)

	var target *pgconn.PgError
	assert.ErrorAs(t, wrapped, &target)
}
