package main

import (
	"context"
	"log/slog"
	"time"

	"hrpm/config"
	logs "hrpm/internal/infra/log"
	"hrpm/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const defaultCommandTimeout = 30 * time.Second

// Global flags available to all subcommands.
var commandTimeout time.Duration

// NewRootCmd creates the root command for the hrpm operations CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hrpmctl",
		Short:         "hrpm operations",
		Long:          `Operational tasks for the hrpm auth service: schema migrations and account bootstrap.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().DurationVar(&commandTimeout, "timeout", defaultCommandTimeout, "timeout for database operations (e.g., 30s, 1m)")

	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewUserCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}

// env is the loaded configuration and an open database handle.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
}

func (e *env) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// openEnv loads config/config.yaml (plus environment overrides) and connects to PostgreSQL.
func openEnv() (*env, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	logger, err := logs.New(logs.Params{Config: cfg})
	if err != nil {
		return nil, errors.Wrap(err, "create logger")
	}

	db, err := postgres.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, logger: logger, db: db}, nil
}

// commandContext bounds the command by --timeout and honours cancellation of cmd.Context().
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}

	return context.WithTimeout(parent, commandTimeout)
}
