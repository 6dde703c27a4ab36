// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "hrpm/internal/delivery/context"
	"hrpm/internal/domain/entity"
	domainerrors "hrpm/internal/domain/errors"
	"hrpm/internal/domain/repository"
	"hrpm/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	logger           *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	logger *slog.Logger,
) usecase.SessionUsecase {
	return &sessionService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		logger:           logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListSessions retrieves the live sessions of the principal.
func (srv *sessionService) ListSessions(ctx context.Context, principal usecase.Principal) ([]*entity.SessionInfo, error) {
	srv.log(ctx).Debug("Listing active sessions", slog.Any("user_id", principal.UserID))

	tokens, err := srv.refreshTokenRepo.FindActiveRefreshTokensByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find active refresh tokens")
	}

	sessions := make([]*entity.SessionInfo, 0, len(tokens))
	for _, token := range tokens {
		sessions = append(sessions, &entity.SessionInfo{
			ID:        token.ID,
			CreatedAt: token.CreatedAt,
			ExpiresAt: token.ExpiresAt,
		})
	}

	return sessions, nil
}

// RevokeAllSessions revokes every session of userID on behalf of actor.
func (srv *sessionService) RevokeAllSessions(ctx context.Context, actor usecase.Principal, userID uuid.UUID) (int64, error) {
	if actor.UserID != userID && !actor.IsAdmin() {
		srv.log(ctx).Warn("Session revocation denied",
			slog.Any("actor_id", actor.UserID),
			slog.Any("user_id", userID),
			slog.String("role", actor.Role.String()))

		return 0, errors.Wrap(domainerrors.ErrForbidden, "cannot revoke sessions of another user")
	}

	if _, err := srv.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
		}

		return 0, errors.Wrap(err, "failed to find user")
	}

	count, err := srv.refreshTokenRepo.RevokeRefreshTokensByUserID(ctx, userID)
	if err != nil {
		srv.log(ctx).Error("Failed to revoke sessions", slog.Any("user_id", userID), slog.Any("error", err))

		return 0, errors.Wrap(err, "failed to revoke refresh tokens")
	}

	srv.log(ctx).Info("Revoked all sessions",
		slog.Any("actor_id", actor.UserID),
		slog.Any("user_id", userID),
		slog.Int64("count", count))

	return count, nil
}
