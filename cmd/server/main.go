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

	"github.com/dailydev/internal/auth"
	"github.com/dailydev/internal/config"
	"github.com/dailydev/internal/db"
	"github.com/dailydev/internal/handler"
	"github.com/dailydev/internal/logging"
	"github.com/dailydev/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env 不存在时忽略，环境变量优先
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// 初始化数据库
	gdb, err := db.Init(cfg.DatabasePath)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize database")
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.WithError(err).Fatal("failed to create token manager")
	}

	api := handler.NewAPI(gdb, handler.Options{
		Tokens:      tokens,
		Hasher:      auth.NewBcryptHasher(cfg.BcryptCost),
		Logger:      logger,
		Development: cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.SetupRouter(api, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.ListenAddr).WithField("env", cfg.Environment).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("failed to run server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}
}
