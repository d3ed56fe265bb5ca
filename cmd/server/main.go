// Command taskdeck-server starts the taskdeck REST API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/eklimov/taskdeck/internal/config"
	"github.com/eklimov/taskdeck/internal/limiter"
	"github.com/eklimov/taskdeck/internal/migrate"
	"github.com/eklimov/taskdeck/internal/repository/postgres"
	httpserver "github.com/eklimov/taskdeck/internal/server/http"
	"github.com/eklimov/taskdeck/internal/service"
	"github.com/eklimov/taskdeck/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses configuration, runs migrations, and starts the HTTP server.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DatabaseDSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// DB pool
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres.New", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	checklistRepo := postgres.NewChecklistRepo(db)
	taskRepo := postgres.NewTaskRepo(db)

	lim := limiter.NewPG(db.Pool, cfg.LoginWindow, cfg.LoginMaxFails, cfg.LoginBlockFor)

	tokens, err := token.NewService(token.Config{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL})
	if err != nil {
		logger.Fatal("token service", zap.Error(err))
	}

	// Services
	authSvc := service.NewAuthService(userRepo, tokens, lim)
	checklistSvc := service.NewChecklistService(checklistRepo, taskRepo)
	taskSvc := service.NewTaskService(taskRepo, checklistRepo)

	app := httpserver.New(httpserver.Deps{
		Log:           logger,
		Tokens:        tokens,
		Auth:          authSvc,
		Checklists:    checklistSvc,
		Tasks:         taskSvc,
		Users:         userRepo,
		ChecklistRepo: checklistRepo,
		TaskRepo:      taskRepo,
		SecureCookies: cfg.SecureCookies,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
