package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/nihon-flash/internal/config"
	httpdelivery "github.com/aliskhannn/nihon-flash/internal/delivery/http"
	"github.com/aliskhannn/nihon-flash/internal/delivery/telegram"
	"github.com/aliskhannn/nihon-flash/internal/infra/postgres"
	"github.com/aliskhannn/nihon-flash/internal/infra/postgres/repository"
	"github.com/aliskhannn/nihon-flash/internal/logger"
	"github.com/aliskhannn/nihon-flash/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("application stopped with error", zap.Error(err))
	}
	lg.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.ApplySchema(ctx, pool); err != nil {
		return err
	}

	// Initialize repositories and services.
	tx := postgres.NewTransactor(pool)
	userRepo := repository.NewUserRepository(pool)
	deckRepo := repository.NewDeckRepository(pool)
	noteTypeRepo := repository.NewNoteTypeRepository(pool)
	noteRepo := repository.NewNoteRepository(pool)
	cardRepo := repository.NewCardRepository(pool)
	progressRepo := repository.NewProgressRepository(pool)
	logRepo := repository.NewReviewLogRepository(pool)
	mediaRepo := repository.NewMediaRepository(pool)
	reminderRepo := repository.NewReminderRepository(pool)

	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, lg)
	deckService := service.NewDeckService(deckRepo, lg)
	mediaService := service.NewMediaService(deckRepo, mediaRepo, lg)
	noteTypeService := service.NewNoteTypeService(deckRepo, noteTypeRepo, lg)
	noteService := service.NewNoteService(tx, deckRepo, noteTypeRepo, noteRepo, cardRepo, mediaRepo, lg)
	studyService := service.NewStudyService(tx, deckRepo, noteTypeRepo, noteRepo, cardRepo, progressRepo, logRepo, lg)
	reminderService := service.NewReminderService(reminderRepo, userRepo, lg)

	if cfg.Telegram.APIToken != "" {
		if err := startTelegram(ctx, cfg, lg, reminderService); err != nil {
			return err
		}
	} else {
		lg.Info("telegram token not set, reminders disabled")
	}

	handler := httpdelivery.NewHandler(lg, httpdelivery.Services{
		Auth:      authService,
		Decks:     deckService,
		Media:     mediaService,
		NoteTypes: noteTypeService,
		Notes:     noteService,
		Study:     studyService,
		Reminders: reminderService,
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      httpdelivery.NewRouter(handler, lg),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("http server started", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		lg.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// startTelegram connects the bot, wires the reminder notifier and starts the
// update loop and the reminder cron in the background.
func startTelegram(ctx context.Context, cfg *config.Config, lg *zap.Logger, reminders *service.ReminderService) error {
	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.APIToken)
	if err != nil {
		return err
	}
	bot.Debug = cfg.Telegram.Debug
	lg.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(telegram.Commands()...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	reminders.SetNotifier(telegram.NewNotifier(bot, lg))

	go func() {
		if err := telegram.NewHandler(bot, lg).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			lg.Error("telegram handler stopped", zap.Error(err))
		}
	}()

	if cfg.Reminders.Enabled {
		go reminders.Start(ctx)
	}
	return nil
}
