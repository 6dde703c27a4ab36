package repository

import (
	"context"

	"hrpm/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrPasswordResetNotFound is returned when a reset token is not found.
var ErrPasswordResetNotFound = errors.New("password reset token not found")

// PasswordResetRepository persists password reset tokens, addressed by hash.
type PasswordResetRepository interface {
	// CreatePasswordReset persists a new reset token.
	CreatePasswordReset(ctx context.Context, token *entity.PasswordResetToken) error

	// FindPasswordResetByHash returns the token row regardless of its state.
	FindPasswordResetByHash(ctx context.Context, tokenHash string) (*entity.PasswordResetToken, error)

	// FindValidPasswordResetByEmail returns the most recently created valid token for the email.
	FindValidPasswordResetByEmail(ctx context.Context, email string) (*entity.PasswordResetToken, error)

	// IsPasswordResetValid re-derives validity from the stored row. Unknown tokens are invalid.
	IsPasswordResetValid(ctx context.Context, tokenHash string) (bool, error)

	// InvalidatePasswordResetsByEmail marks every unused token for the email as used.
	InvalidatePasswordResetsByEmail(ctx context.Context, email string) (int64, error)

	// MarkPasswordResetUsed atomically flips is_used from false to true.
	// It reports false when the token was already used.
	MarkPasswordResetUsed(ctx context.Context, tokenHash string) (bool, error)
}
