package postgres

import (
	"context"
	"time"

	"hrpm/internal/domain/entity"
	domainerrors "hrpm/internal/domain/errors"
	"hrpm/internal/domain/repository"
	"hrpm/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// refreshTokenRepository implements the domain.RefreshTokenRepository interface.
type refreshTokenRepository struct {
	keyedStore[model.RefreshTokenModel]
}

// NewRefreshTokenRepository is the constructor for refreshTokenRepository.
func NewRefreshTokenRepository(db *gorm.DB) repository.RefreshTokenRepository {
	return &refreshTokenRepository{
		keyedStore: newKeyedStore[model.RefreshTokenModel](db, "token_hash"),
	}
}

// CreateRefreshToken persists a new refresh token, representing a user session.
func (repo *refreshTokenRepository) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	if token.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate refresh token id")
		}
		token.ID = id
	}

	tokenM := fromRefreshTokenDomain(token)

	if err := repo.create(ctx, tokenM); err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrTokenPersistFailed.WrapMessage("refresh token already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrTokenPersistFailed.WrapMessage("invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create refresh token")
	}

	token.CreatedAt = tokenM.CreatedAt

	return nil
}

// FindRefreshTokenByHash returns the stored row regardless of its state.
func (repo *refreshTokenRepository) FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	tokenM, err := repo.findByKey(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRefreshTokenNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find refresh token")
	}

	return toRefreshTokenDomain(tokenM), nil
}

// FindActiveRefreshTokensByUserID lists the user's live sessions, newest first.
func (repo *refreshTokenRepository) FindActiveRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error) {
	var tokenMs []*model.RefreshTokenModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND is_used = ? AND is_revoked = ? AND expires_at > ?", userID, false, false, time.Now()).
		Order("created_at DESC").
		Find(&tokenMs).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list refresh tokens")
	}

	tokens := make([]*entity.RefreshToken, 0, len(tokenMs))
	for _, tokenM := range tokenMs {
		tokens = append(tokens, toRefreshTokenDomain(tokenM))
	}

	return tokens, nil
}

// IsRefreshTokenValid re-reads the row and applies the validity rule.
func (repo *refreshTokenRepository) IsRefreshTokenValid(ctx context.Context, tokenHash string) (bool, error) {
	token, err := repo.FindRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return false, nil
		}

		return false, err
	}

	return token.IsValid(time.Now()), nil
}

// MarkRefreshTokenUsed flips is_used only when the token is still unused and unrevoked.
func (repo *refreshTokenRepository) MarkRefreshTokenUsed(ctx context.Context, tokenHash string) (bool, error) {
	ok, err := repo.compareAndSet(ctx, tokenHash,
		map[string]any{"is_used": false, "is_revoked": false},
		map[string]any{"is_used": true},
	)
	if err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to mark refresh token used")
	}

	return ok, nil
}

// MarkRefreshTokenRevoked revokes a single token. Unknown or already revoked tokens are not an error.
func (repo *refreshTokenRepository) MarkRefreshTokenRevoked(ctx context.Context, tokenHash string) error {
	if _, err := repo.compareAndSet(ctx, tokenHash,
		map[string]any{"is_revoked": false},
		map[string]any{"is_revoked": true},
	); err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to revoke refresh token")
	}

	return nil
}

// RevokeRefreshTokensByUserID revokes every unrevoked token of the user.
func (repo *refreshTokenRepository) RevokeRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := repo.updateWhere(ctx,
		map[string]any{"user_id": userID, "is_revoked": false},
		map[string]any{"is_revoked": true},
	)
	if err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to revoke user refresh tokens")
	}

	return count, nil
}

// --- Mapper Functions ---

func toRefreshTokenDomain(data *model.RefreshTokenModel) *entity.RefreshToken {
	if data == nil {
		return nil
	}

	return &entity.RefreshToken{
		ID:        data.ID,
		UserID:    data.UserID,
		TokenHash: data.TokenHash,
		ExpiresAt: data.ExpiresAt,
		IsUsed:    data.IsUsed,
		IsRevoked: data.IsRevoked,
		CreatedAt: data.CreatedAt,
	}
}

func fromRefreshTokenDomain(data *entity.RefreshToken) *model.RefreshTokenModel {
	if data == nil {
		return nil
	}

	return &model.RefreshTokenModel{
		ID:        data.ID,
		UserID:    data.UserID,
		TokenHash: data.TokenHash,
		ExpiresAt: data.ExpiresAt,
		IsUsed:    data.IsUsed,
		IsRevoked: data.IsRevoked,
		CreatedAt: data.CreatedAt,
	}
}
