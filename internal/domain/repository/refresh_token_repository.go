// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"hrpm/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for token persistence.
var (
	// ErrRefreshTokenNotFound is returned when a refresh token is not found.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	// ErrConcurrentUpdate is returned when the store aborted a transaction because of
	// a conflicting concurrent write. The whole operation may be retried.
	ErrConcurrentUpdate = errors.New("concurrent update conflict")
)

// RefreshTokenRepository persists refresh tokens. Tokens are addressed by the
// SHA-256 hash of their opaque value.
type RefreshTokenRepository interface {
	// CreateRefreshToken persists a new refresh token, representing a user session.
	CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error

	// FindRefreshTokenByHash returns the token row regardless of its state.
	FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// FindActiveRefreshTokensByUserID lists unused, unrevoked, unexpired tokens, newest first.
	FindActiveRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error)

	// IsRefreshTokenValid re-derives validity from the stored row. Unknown tokens are invalid.
	IsRefreshTokenValid(ctx context.Context, tokenHash string) (bool, error)

	// MarkRefreshTokenUsed atomically flips is_used from false to true on an unrevoked token.
	// It reports false when the token was already used or revoked.
	MarkRefreshTokenUsed(ctx context.Context, tokenHash string) (bool, error)

	// MarkRefreshTokenRevoked sets is_revoked. Revoking twice is not an error.
	MarkRefreshTokenRevoked(ctx context.Context, tokenHash string) error

	// RevokeRefreshTokensByUserID revokes every unrevoked token of the user and returns the count.
	RevokeRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}
