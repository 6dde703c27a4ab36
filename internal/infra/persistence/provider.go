// Package persistence selects the storage driver and exposes its repositories to fx.
package persistence

import (
	"log/slog"

	"hrpm/config"
	"hrpm/internal/domain/repository"
	"hrpm/internal/infra/persistence/memory"
	"hrpm/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params defines the dependencies of the storage provider.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// Repositories is the set of ports backed by the configured driver.
type Repositories struct {
	fx.Out

	TxManager         repository.TransactionManager
	UserRepo          repository.UserRepository
	RefreshTokenRepo  repository.RefreshTokenRepository
	PasswordResetRepo repository.PasswordResetRepository
}

// New builds the repositories for storage.driver.
func New(params Params) (Repositories, error) {
	switch params.Config.Storage.Driver {
	case config.StorageDriverMemory:
		params.Logger.Warn("Using in-memory storage; data is lost on restart")
		store := memory.NewStore()

		return Repositories{
			TxManager:         memory.NewTransactionManager(store),
			UserRepo:          memory.NewUserRepository(store),
			RefreshTokenRepo:  memory.NewRefreshTokenRepository(store),
			PasswordResetRepo: memory.NewPasswordResetRepository(store),
		}, nil

	case config.StorageDriverPostgres, "":
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return Repositories{}, err
		}

		return Repositories{
			TxManager:         postgres.NewTransactionManager(db),
			UserRepo:          postgres.NewUserRepository(db),
			RefreshTokenRepo:  postgres.NewRefreshTokenRepository(db),
			PasswordResetRepo: postgres.NewPasswordResetRepository(db),
		}, nil

	default:
		return Repositories{}, errors.Errorf("unknown storage driver: %s", params.Config.Storage.Driver)
	}
}
