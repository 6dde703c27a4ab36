package main

import (
	"context"

	"hrpm/internal/delivery/http/validator"
	"hrpm/internal/domain/entity"
	"hrpm/internal/infra/auth"
	"hrpm/internal/infra/persistence/postgres"
	"hrpm/internal/usecase"
	"hrpm/internal/usecase/impl"

	"github.com/spf13/cobra"
)

// NewUserCmd creates the user subcommand.
func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(newUserCreateCmd())

	return cmd
}

func newUserCreateCmd() *cobra.Command {
	input := &usecase.CreateUserInput{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			user, err := createUser(ctx, newUserUsecase(e), input)
			if err != nil {
				return err
			}

			cmd.Printf("Created %s %s <%s>\n", user.Role, user.ID, user.Email)

			return nil
		},
	}

	cmd.Flags().StringVar(&input.Name, "name", "", "display name")
	cmd.Flags().StringVar(&input.Email, "email", "", "login email")
	cmd.Flags().StringVar(&input.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&input.Role, "role", entity.RoleEmployee.String(), "Admin, Manager or Employee")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newUserUsecase(e *env) usecase.UserUsecase {
	return impl.NewUserService(impl.UserServiceParams{
		UserRepo: postgres.NewUserRepository(e.db),
		Hasher:   auth.NewBcryptHasher(e.cfg),
		Logger:   e.logger,
	})
}

// createUser applies the same input rules as the HTTP API before creating the account.
func createUser(ctx context.Context, uc usecase.UserUsecase, input *usecase.CreateUserInput) (*entity.IdentitySummary, error) {
	if err := validator.New().Validate(input); err != nil {
		return nil, err
	}

	return uc.CreateUser(ctx, input)
}
