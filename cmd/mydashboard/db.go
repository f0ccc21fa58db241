package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	sqliteadapter "github.com/ericfisherdev/mydashboard/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/mydashboard/internal/config"
)

// openDatabase opens the configured database and applies pending migrations.
// The caller closes the returned DB.
func openDatabase(cfg *config.Config) (*sqliteadapter.DB, error) {
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	slog.Info("database opened", "path", cfg.DBPath)

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		closeDatabase(db)
		return nil, err
	}
	slog.Info("migrations complete")
	return db, nil
}

func closeDatabase(db *sqliteadapter.DB) {
	if err := db.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and print the schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			version, err := sqliteadapter.SchemaVersion(db.Writer)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	}
}

// now is the current time in the configured zone.
func now(cfg *config.Config) time.Time {
	return time.Now().In(cfg.Location)
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
