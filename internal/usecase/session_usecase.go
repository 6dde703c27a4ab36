package usecase

import (
	"context"

	"hrpm/internal/domain/entity"

	"github.com/google/uuid"
)

// SessionUsecase defines the interface for session management operations.
type SessionUsecase interface {
	// ListSessions returns the principal's live sessions, newest first.
	ListSessions(ctx context.Context, principal Principal) ([]*entity.SessionInfo, error)

	// RevokeAllSessions revokes every session of userID. The actor must be that user or an Admin.
	RevokeAllSessions(ctx context.Context, actor Principal, userID uuid.UUID) (int64, error)
}
