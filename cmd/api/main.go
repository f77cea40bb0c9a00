package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wordtrainer/internal/api"
	"wordtrainer/internal/config"
	"wordtrainer/internal/domain"
	"wordtrainer/internal/platform/database"
	"wordtrainer/internal/repository/postgres"
	"wordtrainer/internal/service"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Fatal("API exited with error", zap.Error(err))
	}
}

// run wires the HTTP API and serves it until ctx is cancelled
func run(ctx context.Context, logger *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg.DSN(), database.DefaultRetryPolicy, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(db, cfg.MigrationsURL, logger); err != nil {
		return err
	}

	wordRepo := postgres.NewWordRepo(db)
	groupRepo := postgres.NewGroupRepo(db)

	// The API keeps no per-client selection or expanded groups, so this state
	// is never read; practice sessions carry their own ids.
	members := service.NewMembershipManager(
		service.NewWordService(wordRepo),
		groupRepo,
		domain.NewSessionState(),
		logger,
	)
	sessions := service.NewSessionRegistry(func() *service.PracticeSession {
		return service.NewPracticeSession(wordRepo, logger)
	}, logger)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           c.Handler(api.NewServer(members, wordRepo, sessions, logger).Routes()),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       time.Minute,
	}

	go evictIdleSessions(ctx, sessions, cfg.Practice.SessionTTL)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Wordtrainer API listening", zap.String("addr", cfg.HTTP.Addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutdown signal received, stopping API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// evictIdleSessions drops practice sessions nobody has touched within ttl
func evictIdleSessions(ctx context.Context, sessions *service.SessionRegistry, ttl time.Duration) {
	ticker := time.NewTicker(ttl / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions.EvictIdle(ttl)
		}
	}
}
