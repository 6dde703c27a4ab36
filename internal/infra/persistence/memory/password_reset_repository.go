package memory

import (
	"context"

	"hrpm/internal/domain/entity"
	domainerrors "hrpm/internal/domain/errors"
	"hrpm/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type passwordResetRepository struct {
	store *Store
	inTx  bool
}

// NewPasswordResetRepository returns a PasswordResetRepository backed by the store.
func NewPasswordResetRepository(store *Store) repository.PasswordResetRepository {
	return &passwordResetRepository{store: store}
}

func (r *passwordResetRepository) CreatePasswordReset(_ context.Context, token *entity.PasswordResetToken) error {
	defer lock(r.store, r.inTx)()

	if _, exists := r.store.passwordResets[token.TokenHash]; exists {
		return domainerrors.ErrTokenPersistFailed.WrapMessage("password reset token already exists")
	}

	if token.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate password reset id")
		}
		token.ID = id
	}
	token.CreatedAt = r.store.now()
	r.store.passwordResets[token.TokenHash] = *token

	return nil
}

func (r *passwordResetRepository) FindPasswordResetByHash(_ context.Context, tokenHash string) (*entity.PasswordResetToken, error) {
	defer lock(r.store, r.inTx)()

	token, ok := r.store.passwordResets[tokenHash]
	if !ok {
		return nil, repository.ErrPasswordResetNotFound
	}

	return &token, nil
}

func (r *passwordResetRepository) FindValidPasswordResetByEmail(_ context.Context, email string) (*entity.PasswordResetToken, error) {
	defer lock(r.store, r.inTx)()

	now := r.store.now()
	var latest *entity.PasswordResetToken
	for _, token := range r.store.passwordResets {
		if token.Email != email || !token.IsValid(now) {
			continue
		}
		if latest == nil || token.CreatedAt.After(latest.CreatedAt) {
			latest = &token
		}
	}

	if latest == nil {
		return nil, repository.ErrPasswordResetNotFound
	}

	return latest, nil
}

func (r *passwordResetRepository) IsPasswordResetValid(_ context.Context, tokenHash string) (bool, error) {
	defer lock(r.store, r.inTx)()

	token, ok := r.store.passwordResets[tokenHash]

	return ok && token.IsValid(r.store.now()), nil
}

func (r *passwordResetRepository) InvalidatePasswordResetsByEmail(_ context.Context, email string) (int64, error) {
	defer lock(r.store, r.inTx)()

	var count int64
	for hash, token := range r.store.passwordResets {
		if token.Email == email && !token.IsUsed {
			token.IsUsed = true
			r.store.passwordResets[hash] = token
			count++
		}
	}

	return count, nil
}

func (r *passwordResetRepository) MarkPasswordResetUsed(_ context.Context, tokenHash string) (bool, error) {
	defer lock(r.store, r.inTx)()

	token, ok := r.store.passwordResets[tokenHash]
	if !ok || token.IsUsed {
		return false, nil
	}

	token.IsUsed = true
	r.store.passwordResets[tokenHash] = token

	return true, nil
}
