package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	sqliteadapter "github.com/ericfisherdev/mydashboard/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/mydashboard/internal/application"
	"github.com/ericfisherdev/mydashboard/internal/config"
	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample settings, OKRs, todos and posts",
		Long: `Seed fills an empty database with sample data. Each section is only
applied when its table is empty, so running it twice is harmless.

Without --file the built-in sample data is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			at := now(cfg)
			var data model.SeedData
			if file != "" {
				data, err = config.LoadSeedFile(file, at)
			} else {
				data, err = config.DefaultSeed(at)
			}
			if err != nil {
				return err
			}

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			svc := application.NewSeedService(
				sqliteadapter.NewSettingsRepo(db),
				sqliteadapter.NewObjectiveRepo(db),
				sqliteadapter.NewTodoRepo(db),
				sqliteadapter.NewPostRepo(db),
				slog.Default(),
			)
			res, err := svc.Seed(commandContext(cmd), data, at)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"seeded: settings=%t objectives=%d key_results=%d todos=%d posts=%d\n",
				res.SettingsCreated, res.Objectives, res.KeyResults, res.Todos, res.Posts,
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file (default: built-in sample data)")
	return cmd
}
