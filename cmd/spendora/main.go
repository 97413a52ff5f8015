package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/Ad2m1109/Spendora/internal/backend"
	"github.com/Ad2m1109/Spendora/internal/cli"
	apphttp "github.com/Ad2m1109/Spendora/internal/http"
	"github.com/Ad2m1109/Spendora/internal/log"
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		// Logging is not configured yet.
		os.Stderr.WriteString(err.Error() + "\n")
	}

	logger := cli.SetupLogger(log.ComponentApp, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.LogError(context.Background(), "Invalid backend configuration", log.OpStartup, err)
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.LogError(context.Background(), "Failed to create backend", log.OpStartup, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	srv := apphttp.NewServer(apphttp.Config{
		Addr:           ":" + cfg.Port,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, result.Services, logger)

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.LogError(shutdownCtx, "Server shutdown error", log.OpShutdown, err)
		}
		if err := result.Cleanup(); err != nil {
			logger.LogError(shutdownCtx, "Backend cleanup error", log.OpShutdown, err)
		}
	})

	logger.Info("Starting spendora server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"goal_sync", result.GoalSync)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
