package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gamestore/store-admin/app/auth"
	"github.com/gamestore/store-admin/app/server"
	"github.com/gamestore/store-admin/app/storage"
	"github.com/gamestore/store-admin/config"
	"github.com/gamestore/store-admin/logging"
	"github.com/gamestore/store-admin/models"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	logger, err := logging.Init(cfg.Logger)
	if err != nil {
		log.Fatalf("init logger: %s", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := models.Open(cfg.Database)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	if err := models.Migrate(db); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	users := models.NewUsersRepository(db)
	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		created, err := users.EnsureAdmin(ctx, "Admin", cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
		if err != nil {
			logger.Fatal("seed admin", zap.Error(err))
		}
		if created {
			logger.Info("admin account created", zap.String("email", cfg.Auth.AdminEmail))
		}
	}

	sweeper, err := auth.StartSweeper(cfg.Auth.SweepSchedule, users)
	if err != nil {
		logger.Fatal("start session sweeper", zap.Error(err))
	}
	defer sweeper.Stop()

	images, err := storage.NewLocal(cfg.Storage)
	if err != nil {
		logger.Fatal("init storage", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.NewRouter(db, cfg, images),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
		os.Exit(1)
	}
}
