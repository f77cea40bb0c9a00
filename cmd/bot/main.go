package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wordtrainer/internal/config"
	"wordtrainer/internal/handler"
	"wordtrainer/internal/middleware"
	"wordtrainer/internal/platform/database"
	"wordtrainer/internal/repository/postgres"
	"wordtrainer/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

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
		logger.Fatal("Bot exited with error", zap.Error(err))
	}
}

// run wires the bot and blocks until ctx is cancelled
func run(ctx context.Context, logger *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.RequireBot(); err != nil {
		return err
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

	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}
	bot.Use(middleware.LogUpdates(logger), middleware.SerializeUsers())

	h := handler.NewHandler(bot, service.NewWordService(wordRepo), groupRepo, wordRepo, logger)
	h.RegisterHandlers()

	go evictIdleUsers(ctx, h, cfg.Practice.SessionTTL, logger)
	go bot.Start()

	logger.Info("Wordtrainer bot started", zap.Duration("session_ttl", cfg.Practice.SessionTTL))
	<-ctx.Done()

	logger.Info("Shutdown signal received, stopping bot")
	bot.Stop()
	return nil
}

// evictIdleUsers forgets users who stopped talking to the bot,
// discarding their selections and unfinished practice rounds
func evictIdleUsers(ctx context.Context, h *handler.Handler, ttl time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(ttl / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := h.EvictIdle(ttl); evicted > 0 {
				logger.Info("Evicted idle users", zap.Int("evicted", evicted))
			}
		}
	}
}
