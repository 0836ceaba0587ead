package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/OfficialEseosa/panther-watch/config"
	"github.com/OfficialEseosa/panther-watch/internal/api/handler"
	"github.com/OfficialEseosa/panther-watch/internal/api/router"
	"github.com/OfficialEseosa/panther-watch/internal/banner"
	"github.com/OfficialEseosa/panther-watch/internal/repository"
	"github.com/OfficialEseosa/panther-watch/internal/service"
	"github.com/OfficialEseosa/panther-watch/internal/watcher"
	"github.com/OfficialEseosa/panther-watch/pkg/database"
	"github.com/OfficialEseosa/panther-watch/pkg/jwt"
	applogger "github.com/OfficialEseosa/panther-watch/pkg/logger"
	"github.com/OfficialEseosa/panther-watch/pkg/mailer"
	"github.com/OfficialEseosa/panther-watch/pkg/redis"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting pantherwatch",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("acquire sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// Redis holds the schedule read model and the rate-limit counters;
	// the server does not run without it.
	cache, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}

	verifier := jwt.NewVerifier(&cfg.Auth)
	bannerClient := banner.NewClient(&cfg.Banner, logger)
	mail := mailer.New(&cfg.Mail, logger)

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, cache, bannerClient, mail, logger)
	h := handler.NewHandler(svc)

	engine := router.Setup(cfg, h, verifier, svc.User, cache, logger)

	var courseWatcher *watcher.Watcher
	if cfg.Watcher.Enabled {
		courseWatcher = watcher.New(&cfg.Watcher, repo, bannerClient, mail, logger)
		if err := courseWatcher.Start(); err != nil {
			logger.Fatal("course watcher start failed", zap.Error(err))
		}
		logger.Info("course watcher started", zap.String("schedule", cfg.Watcher.Schedule))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // SSE streams and upstream searches run long
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	if courseWatcher != nil {
		courseWatcher.Stop()
	}
	svc.Close()

	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}
	cache.Close()

	logger.Info("shutdown complete")
}
