package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/terra-clan/agency-site/internal/api"
	"github.com/terra-clan/agency-site/internal/catalog"
	"github.com/terra-clan/agency-site/internal/cleanup"
	"github.com/terra-clan/agency-site/internal/config"
	"github.com/terra-clan/agency-site/internal/contact"
	"github.com/terra-clan/agency-site/internal/health"
	"github.com/terra-clan/agency-site/internal/page"
	"github.com/terra-clan/agency-site/internal/session"
	"github.com/terra-clan/agency-site/internal/storage"
)

// limiterIdle is how long a quiet remote address keeps its rate limit bucket
const limiterIdle = 10 * time.Minute

// serveCmd runs the HTTP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the landing page HTTP server",
	Long: `Run the HTTP server. Configuration comes from environment variables
(SERVER_PORT, DATABASE_DSN, REDIS_ADDRESS, ...). Without DATABASE_DSN contact
messages are kept in memory; without REDIS_ADDRESS so are selections.`,
	Annotations: map[string]string{logStreamAnnotation: "stdout"},
	RunE:        runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}
	if contentFile == "" {
		contentFile = cfg.Content.File
	}

	slog.Info("starting agency-site",
		"version", version,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(ctx, 30*time.Second)
	defer initCancel()

	registry := health.NewRegistry()
	cleaner := cleanup.NewCleaner(cfg.Session.SweepInterval)

	repo, err := openRepository(initCtx, cfg.Database)
	if err != nil {
		return err
	}
	defer repo.Close()
	registry.Register("storage", repo)

	sessions, err := openSessions(initCtx, cfg, cleaner)
	if err != nil {
		return err
	}
	defer sessions.Close()
	registry.Register("sessions", sessions)

	limiter := contact.NewLimiter(cfg.Contact.RatePerMinute, cfg.Contact.Burst, limiterIdle)
	cleaner.Add("contact_limiter", limiter)

	renderer := page.NewRenderer(catalog.LoadOrDefault(contentFile), page.Links{Signup: cfg.Links.Signup})

	server := api.NewServer(cfg.Server, api.Dependencies{
		Renderer:   renderer,
		Sessions:   sessions,
		Contact:    contact.NewService(repo, limiter),
		Health:     registry,
		VisitorTTL: cfg.Session.TTL,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return cleaner.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.CloseLive()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped with error", "error", err)
		return err
	}

	slog.Info("agency-site stopped")
	return nil
}

func openRepository(ctx context.Context, cfg config.DatabaseConfig) (storage.Repository, error) {
	if cfg.DSN == "" {
		slog.Warn("DATABASE_DSN not set, contact messages are kept in memory")
		return storage.NewMemoryRepository(), nil
	}

	repo, err := storage.NewPostgresRepository(ctx, storage.PostgresConfig{
		DSN:          cfg.DSN,
		MaxOpenConns: int32(cfg.MaxConns),
		MaxLifetime:  cfg.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to create database repository", "error", err)
		return nil, err
	}

	fsys, err := storage.Migrations(cfg.MigrationsDir)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to open migrations: %w", err)
	}

	slog.Info("running database migrations", "dir", cfg.MigrationsDir)
	if err := storage.RunMigrations(ctx, repo.Pool(), fsys); err != nil {
		slog.Error("failed to run migrations", "error", err)
		repo.Close()
		return nil, err
	}
	slog.Info("database connected successfully")
	return repo, nil
}

func openSessions(ctx context.Context, cfg *config.Config, cleaner *cleanup.Cleaner) (session.Store, error) {
	if cfg.Redis.Address == "" {
		store := session.NewMemoryStore(cfg.Session.TTL)
		cleaner.Add("sessions", store)
		return store, nil
	}

	store, err := session.NewRedisStore(ctx, session.RedisConfig{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Session.TTL,
	})
	if err != nil {
		slog.Error("failed to connect session store", "error", err)
		return nil, err
	}
	return store, nil
}
