package memory

import (
	"context"

	"hrpm/internal/domain/entity"
	"hrpm/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type userRepository struct {
	store *Store
	inTx  bool
}

// NewUserRepository returns a UserRepository backed by the store.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	defer lock(r.store, r.inTx)()

	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return &user, nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	defer lock(r.store, r.inTx)()

	for _, user := range r.store.users {
		if user.Email == email {
			return &user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *userRepository) Create(_ context.Context, user *entity.User) error {
	defer lock(r.store, r.inTx)()

	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return repository.ErrUserAlreadyExists
		}
	}

	if user.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate user id")
		}
		user.ID = id
	}
	if _, exists := r.store.users[user.ID]; exists {
		return repository.ErrUserAlreadyExists
	}

	now := r.store.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.store.users[user.ID] = *user

	return nil
}

func (r *userRepository) UpdatePasswordHash(_ context.Context, id uuid.UUID, passwordHash string) error {
	defer lock(r.store, r.inTx)()

	user, ok := r.store.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}

	user.PasswordHash = passwordHash
	user.UpdatedAt = r.store.now()
	r.store.users[id] = user

	return nil
}

// LockByID only checks existence; the store lock already serialises transactions.
func (r *userRepository) LockByID(_ context.Context, id uuid.UUID) error {
	defer lock(r.store, r.inTx)()

	if _, ok := r.store.users[id]; !ok {
		return repository.ErrUserNotFound
	}

	return nil
}
