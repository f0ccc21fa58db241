package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/spf13/cobra"

	githubadapter "github.com/ericfisherdev/mydashboard/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/mydashboard/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/mydashboard/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/mydashboard/internal/adapter/driving/web"
	"github.com/ericfisherdev/mydashboard/internal/application"
	"github.com/ericfisherdev/mydashboard/internal/config"
	"github.com/ericfisherdev/mydashboard/internal/domain/port/driven"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the GitHub stats refresher (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	// 1. Load configuration (fail fast on malformed env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"refresh_schedule", cfg.RefreshSpec,
		"github_username", cfg.GitHubUsername,
		"timezone", cfg.Location.String(),
		"week_start", cfg.WeekStart.String(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database and run migrations.
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	// 4. Wire stores.
	settingsStore := sqliteadapter.NewSettingsRepo(db)
	credentialStore := sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)
	objectiveStore := sqliteadapter.NewObjectiveRepo(db)
	todoStore := sqliteadapter.NewTodoRepo(db)
	postStore := sqliteadapter.NewPostRepo(db)

	// 5. GitHub client factory over an optional persistent HTTP cache.
	var cache httpcache.Cache
	if cfg.HTTPCachePath != "" {
		boltCache, err := githubadapter.OpenBoltCache(cfg.HTTPCachePath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := boltCache.Close(); closeErr != nil {
				slog.Error("error closing http cache", "error", closeErr)
			}
		}()
		cache = boltCache
		slog.Info("http cache opened", "path", cfg.HTTPCachePath)
	}
	newClient := func(token string) driven.GitHubClient {
		return githubadapter.NewClient(token, cache)
	}

	// 6. Services. The stored token wins over the environment token.
	provider := application.NewGitHubClientProvider(nil)
	settingsSvc := application.NewSettingsService(
		settingsStore, credentialStore, provider, newClient,
		cfg.GitHubToken, cfg.GitHubUsername, slog.Default(),
	)
	token := settingsSvc.ResolveToken(ctx)
	provider.Replace(newClient(token))
	if token == "" {
		slog.Info("no github token configured, contribution calendar disabled until one is set")
	}

	okrSvc := application.NewOKRService(objectiveStore, cfg.WeekStart, slog.Default())
	todoSvc := application.NewTodoService(todoStore, slog.Default())
	blogSvc := application.NewBlogService(postStore, slog.Default())
	statsSvc := application.NewStatsService(provider, settingsSvc, cfg.RefreshSchedule, slog.Default())
	settingsSvc.SetRefresher(statsSvc)
	dashboardSvc := application.NewDashboardService(settingsSvc, okrSvc, todoSvc, blogSvc, statsSvc)

	// 7. Start the stats refresher.
	refresherDone := make(chan struct{})
	go func() {
		statsSvc.Start(ctx)
		close(refresherDone)
	}()

	// 8. Register API and GUI routes on one mux.
	mux := http.NewServeMux()
	apiHandler := httphandler.NewHandler(
		settingsSvc, okrSvc, todoSvc, blogSvc, statsSvc, dashboardSvc,
		cfg.Location, webhandler.RenderMarkdown, slog.Default(),
	)
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	webHandler := webhandler.NewHandler(settingsSvc, okrSvc, todoSvc, blogSvc, dashboardSvc, cfg.Location, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.ApplyMiddleware(mux, slog.Default()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	slog.Info("mydashboard started", "version", Version, "listen_addr", cfg.ListenAddr)

	// 9. Wait for a shutdown signal or a listener failure.
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-serveErr:
		stop()
		<-refresherDone
		return err
	}

	// 10. Graceful shutdown with a 10s drain.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}
	<-refresherDone

	slog.Info("shutdown complete")
	return nil
}
