package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/consalud/herederos-bff/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting herederos service",
		"app_code", cfg.AppCode,
		"auth_mode", cfg.Auth.Mode,
		"addr", cfg.HTTP.Addr,
		"dev", cfg.IsDev)

	redisClient, err := bootstrap.ConnectRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	authController, menuService, err := bootstrap.BuildAuthController(bootstrap.AuthDeps{
		Config:      &cfg,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer authController.Close()

	if err := authController.Initialize(ctx); err != nil {
		// Initialization failure degrades to signed-out; the server still
		// comes up so login can be attempted.
		logger.WarnContext(ctx, "auth initialization failed", "error", err)
	}

	server := bootstrap.StartHTTPServer(bootstrap.HTTPServerConfig{
		Config: &cfg,
		Auth:   authController,
		Menu:   menuService,
		Logger: logger,
	})

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	return bootstrap.ShutdownHTTPServer(ctx, server, logger)
}
