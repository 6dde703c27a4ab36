// Package memory is an in-process storage driver used for development and tests.
// A single mutex serialises transactions, which makes every compare-and-set atomic.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"hrpm/internal/domain/entity"
	"hrpm/internal/domain/repository"

	"github.com/google/uuid"
)

// Store holds every table of the memory driver.
type Store struct {
	mu sync.Mutex

	users          map[uuid.UUID]entity.User
	refreshTokens  map[string]entity.RefreshToken
	passwordResets map[string]entity.PasswordResetToken

	now func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:          make(map[uuid.UUID]entity.User),
		refreshTokens:  make(map[string]entity.RefreshToken),
		passwordResets: make(map[string]entity.PasswordResetToken),
		now:            time.Now,
	}
}

// WithClock replaces the store clock. Used by tests that need to age tokens.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now

	return s
}

type snapshot struct {
	users          map[uuid.UUID]entity.User
	refreshTokens  map[string]entity.RefreshToken
	passwordResets map[string]entity.PasswordResetToken
}

// Values are stored by value so a clone of the maps is a full copy.
func (s *Store) snapshot() snapshot {
	return snapshot{
		users:          maps.Clone(s.users),
		refreshTokens:  maps.Clone(s.refreshTokens),
		passwordResets: maps.Clone(s.passwordResets),
	}
}

func (s *Store) restore(snap snapshot) {
	s.users = snap.users
	s.refreshTokens = snap.refreshTokens
	s.passwordResets = snap.passwordResets
}

// txManager implements repository.TransactionManager over the store.
type txManager struct {
	store *Store
}

// NewTransactionManager returns a TransactionManager whose transactions hold the store lock.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &txManager{store: store}
}

type repoFactory struct {
	store *Store
}

func (f *repoFactory) UserRepo() repository.UserRepository {
	return &userRepository{store: f.store, inTx: true}
}

func (f *repoFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	return &refreshTokenRepository{store: f.store, inTx: true}
}

func (f *repoFactory) PasswordResetRepo() repository.PasswordResetRepository {
	return &passwordResetRepository{store: f.store, inTx: true}
}

// Execute runs fn under the store lock and discards its writes when it fails or panics.
func (tm *txManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tm.store.mu.Lock()
	defer tm.store.mu.Unlock()

	snap := tm.store.snapshot()
	committed := false
	defer func() {
		if !committed {
			tm.store.restore(snap)
		}
	}()

	if err := fn(&repoFactory{store: tm.store}); err != nil {
		return err
	}
	committed = true

	return nil
}

// lock takes the store mutex unless the caller already holds it through Execute.
func lock(s *Store, inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()

	return s.mu.Unlock
}
