package memory

import (
	"cmp"
	"context"
	"slices"

	"hrpm/internal/domain/entity"
	domainerrors "hrpm/internal/domain/errors"
	"hrpm/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type refreshTokenRepository struct {
	store *Store
	inTx  bool
}

// NewRefreshTokenRepository returns a RefreshTokenRepository backed by the store.
func NewRefreshTokenRepository(store *Store) repository.RefreshTokenRepository {
	return &refreshTokenRepository{store: store}
}

func (r *refreshTokenRepository) CreateRefreshToken(_ context.Context, token *entity.RefreshToken) error {
	defer lock(r.store, r.inTx)()

	if _, exists := r.store.refreshTokens[token.TokenHash]; exists {
		return domainerrors.ErrTokenPersistFailed.WrapMessage("refresh token already exists")
	}
	if _, ok := r.store.users[token.UserID]; !ok {
		return domainerrors.ErrTokenPersistFailed.WrapMessage("invalid user reference")
	}

	if token.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate refresh token id")
		}
		token.ID = id
	}
	token.CreatedAt = r.store.now()
	r.store.refreshTokens[token.TokenHash] = *token

	return nil
}

func (r *refreshTokenRepository) FindRefreshTokenByHash(_ context.Context, tokenHash string) (*entity.RefreshToken, error) {
	defer lock(r.store, r.inTx)()

	token, ok := r.store.refreshTokens[tokenHash]
	if !ok {
		return nil, repository.ErrRefreshTokenNotFound
	}

	return &token, nil
}

func (r *refreshTokenRepository) FindActiveRefreshTokensByUserID(_ context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error) {
	defer lock(r.store, r.inTx)()

	now := r.store.now()
	tokens := make([]*entity.RefreshToken, 0)
	for _, token := range r.store.refreshTokens {
		if token.UserID == userID && token.IsValid(now) {
			tokens = append(tokens, &token)
		}
	}

	slices.SortFunc(tokens, func(a, b *entity.RefreshToken) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})

	return tokens, nil
}

func (r *refreshTokenRepository) IsRefreshTokenValid(_ context.Context, tokenHash string) (bool, error) {
	defer lock(r.store, r.inTx)()

	token, ok := r.store.refreshTokens[tokenHash]

	return ok && token.IsValid(r.store.now()), nil
}

func (r *refreshTokenRepository) MarkRefreshTokenUsed(_ context.Context, tokenHash string) (bool, error) {
	defer lock(r.store, r.inTx)()

	token, ok := r.store.refreshTokens[tokenHash]
	if !ok || token.IsUsed || token.IsRevoked {
		return false, nil
	}

	token.IsUsed = true
	r.store.refreshTokens[tokenHash] = token

	return true, nil
}

func (r *refreshTokenRepository) MarkRefreshTokenRevoked(_ context.Context, tokenHash string) error {
	defer lock(r.store, r.inTx)()

	if token, ok := r.store.refreshTokens[tokenHash]; ok {
		token.IsRevoked = true
		r.store.refreshTokens[tokenHash] = token
	}

	return nil
}

func (r *refreshTokenRepository) RevokeRefreshTokensByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	defer lock(r.store, r.inTx)()

	var count int64
	for hash, token := range r.store.refreshTokens {
		if token.UserID == userID && !token.IsRevoked {
			token.IsRevoked = true
			r.store.refreshTokens[hash] = token
			count++
		}
	}

	return count, nil
}
