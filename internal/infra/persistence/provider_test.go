package persistence

import (
	"context"
	"log/slog"
	"testing"

	"hrpm/config"
	"hrpm/internal/domain/entity"
	"hrpm/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func TestNew_MemoryDriverSharesOneStore(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.StorageDriverMemory}}
	repos, err := New(Params{Lifecycle: fxtest.NewLifecycle(t), Config: cfg, Logger: slog.Default()})
	require.NoError(t, err)

	ctx := context.Background()
	user := &entity.User{Name: "A", Email: "a@example.com", Role: entity.RoleAdmin}
	require.NoError(t, repos.TxManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		return f.UserRepo().Create(ctx, user)
	}))

	got, err := repos.UserRepo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "sqlite"}}
	_, err := New(Params{Lifecycle: fxtest.NewLifecycle(t), Config: cfg, Logger: slog.Default()})
	assert.ErrorContains(t, err, "unknown storage driver")
}

func TestNew_PostgresRequiresConfig(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.StorageDriverPostgres}}
	_, err := New(Params{Lifecycle: fxtest.NewLifecycle(t), Config: cfg, Logger: slog.Default()})
	assert.Error(t, err)
}
