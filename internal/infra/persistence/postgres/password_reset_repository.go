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
	"gorm.io/plugin/dbresolver"
)

type passwordResetRepository struct {
	keyedStore[model.PasswordResetTokenModel]
}

// NewPasswordResetRepository is the constructor for passwordResetRepository.
func NewPasswordResetRepository(db *gorm.DB) repository.PasswordResetRepository {
	return &passwordResetRepository{
		keyedStore: newKeyedStore[model.PasswordResetTokenModel](db, "token_hash"),
	}
}

func (repo *passwordResetRepository) CreatePasswordReset(ctx context.Context, token *entity.PasswordResetToken) error {
	if token.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate password reset id")
		}
		token.ID = id
	}

	tokenM := fromPasswordResetDomain(token)

	if err := repo.create(ctx, tokenM); err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrTokenPersistFailed.WrapMessage("password reset token already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create password reset token")
	}

	token.CreatedAt = tokenM.CreatedAt

	return nil
}

func (repo *passwordResetRepository) FindPasswordResetByHash(ctx context.Context, tokenHash string) (*entity.PasswordResetToken, error) {
	tokenM, err := repo.findByKey(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPasswordResetNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find password reset token")
	}

	return toPasswordResetDomain(tokenM), nil
}

func (repo *passwordResetRepository) FindValidPasswordResetByEmail(ctx context.Context, email string) (*entity.PasswordResetToken, error) {
	var tokenM model.PasswordResetTokenModel
	err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("email = ? AND is_used = ? AND expires_at > ?", email, false, time.Now()).
		Order("created_at DESC").
		Take(&tokenM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPasswordResetNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find password reset token by email")
	}

	return toPasswordResetDomain(&tokenM), nil
}

func (repo *passwordResetRepository) IsPasswordResetValid(ctx context.Context, tokenHash string) (bool, error) {
	token, err := repo.FindPasswordResetByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrPasswordResetNotFound) {
			return false, nil
		}

		return false, err
	}

	return token.IsValid(time.Now()), nil
}

func (repo *passwordResetRepository) InvalidatePasswordResetsByEmail(ctx context.Context, email string) (int64, error) {
	count, err := repo.updateWhere(ctx,
		map[string]any{"email": email, "is_used": false},
		map[string]any{"is_used": true},
	)
	if err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to invalidate password reset tokens")
	}

	return count, nil
}

func (repo *passwordResetRepository) MarkPasswordResetUsed(ctx context.Context, tokenHash string) (bool, error) {
	ok, err := repo.compareAndSet(ctx, tokenHash,
		map[string]any{"is_used": false},
		map[string]any{"is_used": true},
	)
	if err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to mark password reset token used")
	}

	return ok, nil
}

func toPasswordResetDomain(data *model.PasswordResetTokenModel) *entity.PasswordResetToken {
	if data == nil {
		return nil
	}

	return &entity.PasswordResetToken{
		ID:        data.ID,
		Email:     data.Email,
		TokenHash: data.TokenHash,
		ExpiresAt: data.ExpiresAt,
		IsUsed:    data.IsUsed,
		CreatedAt: data.CreatedAt,
	}
}

func fromPasswordResetDomain(data *entity.PasswordResetToken) *model.PasswordResetTokenModel {
	if data == nil {
		return nil
	}

	return &model.PasswordResetTokenModel{
		ID:        data.ID,
		Email:     data.Email,
		TokenHash: data.TokenHash,
		ExpiresAt: data.ExpiresAt,
		IsUsed:    data.IsUsed,
		CreatedAt: data.CreatedAt,
	}
}
