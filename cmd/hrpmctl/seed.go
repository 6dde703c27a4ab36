package main

import (
	"context"

	"hrpm/config"
	"hrpm/internal/domain/entity"
	domainerrors "hrpm/internal/domain/errors"
	"hrpm/internal/usecase"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed initial data",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "admin",
		Short: "Create the configured admin account if absent",
		Long: `Creates the admin described by seed.admin in the configuration.
This command is idempotent - an existing account with the same email is left untouched.`,
		RunE: runSeedAdmin,
	})

	return cmd
}

func runSeedAdmin(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	created, err := seedAdmin(ctx, newUserUsecase(e), e.cfg.Seed)
	if err != nil {
		return err
	}

	if created {
		cmd.Printf("Created admin %s\n", e.cfg.Seed.Admin.Email)
	} else {
		cmd.Printf("Admin %s already exists\n", e.cfg.Seed.Admin.Email)
	}

	return nil
}

// seedAdmin reports whether a new account was created.
func seedAdmin(ctx context.Context, uc usecase.UserUsecase, seed config.SeedConfig) (bool, error) {
	if seed.Admin.Password == "" {
		return false, errors.New("seed.admin.password must be set (SEED_ADMIN_PASSWORD)")
	}

	_, err := createUser(ctx, uc, &usecase.CreateUserInput{
		Name:     seed.Admin.Name,
		Email:    seed.Admin.Email,
		Password: seed.Admin.Password,
		Role:     entity.RoleAdmin.String(),
	})
	if errors.Is(err, domainerrors.ErrUserAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}
