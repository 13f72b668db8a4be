package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iota-uz/agentlists/modules/lists"
	"github.com/iota-uz/agentlists/pkg/configuration"
	"github.com/iota-uz/agentlists/pkg/database"
)

type migrateOptions struct {
	driver string
	dsn    string
}

func newMigrateCmd() *cobra.Command {
	var opts migrateOptions

	cmd := &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or roll back the embedded schema migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.driver, "driver", "", "Database driver: postgres|sqlite (default: DB_DRIVER)")
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "Connection string (default: built from DB_* env)")
	return cmd
}

func runMigrate(ctx context.Context, direction string, opts migrateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	driver, dsn := opts.driver, opts.dsn
	if driver == "" || dsn == "" {
		conf := configuration.Use()
		defer conf.Unload()
		if driver == "" {
			driver = conf.Database.Driver
		}
		if dsn == "" {
			dsn = conf.Database.Opts
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	db, err := database.Open(connectCtx, driver, dsn)
	if err != nil {
		return withCode(exitDB, fmt.Errorf("connect: %w", err))
	}
	defer db.Close()

	switch direction {
	case "up":
		err = database.Migrate(ctx, db, lists.MigrationFiles, lists.MigrationsDir)
	case "down":
		err = database.Rollback(ctx, db, lists.MigrationFiles, lists.MigrationsDir)
	default:
		return withCode(exitUsage, fmt.Errorf("unknown direction %q (expected up|down)", direction))
	}
	if err != nil {
		return withCode(exitDB, fmt.Errorf("migrate %s: %w", direction, err))
	}
	return nil
}
