package main

import (
	"hrpm/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE:  runMigrateUp,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show which migrations are applied",
		RunE:  runMigrateStatus,
	})

	return cmd
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	sqlDB, err := e.db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql.DB")
	}

	cmd.Println("Running migrations...")
	if err := postgres.MigrateUp(ctx, sqlDB, e.logger); err != nil {
		return err
	}

	cmd.Println("Migrations completed successfully")

	return nil
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	sqlDB, err := e.db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql.DB")
	}

	statuses, err := postgres.MigrationStatuses(ctx, sqlDB)
	if err != nil {
		return err
	}

	printMigrationStatuses(cmd, statuses)

	return nil
}

func printMigrationStatuses(cmd *cobra.Command, statuses []postgres.MigrationStatus) {
	for _, st := range statuses {
		state := "pending"
		if st.Applied {
			state = "applied"
		}
		cmd.Printf("%05d  %-8s %s\n", st.Version, state, st.Path)
	}
}
