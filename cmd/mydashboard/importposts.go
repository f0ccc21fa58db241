package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/mydashboard/internal/adapter/driven/content"
	sqliteadapter "github.com/ericfisherdev/mydashboard/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/mydashboard/internal/application"
	"github.com/ericfisherdev/mydashboard/internal/config"
)

func newImportPostsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-posts <dir>",
		Short: "Import markdown posts with front matter from a directory",
		Long: `Import every *.md file in dir as a blog post. The file name is the slug;
title, date, excerpt and tags come from YAML front matter. Existing posts
with the same slug are replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			posts, err := content.LoadDir(args[0])
			if err != nil {
				return err
			}

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			blog := application.NewBlogService(sqliteadapter.NewPostRepo(db), slog.Default())
			n, err := blog.Import(commandContext(cmd), posts)
			if err != nil {
				return fmt.Errorf("imported %d of %d posts: %w", n, len(posts), err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d posts from %s\n", n, args[0])
			return nil
		},
	}
}
