package main

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/Ad2m1109/Spendora/internal/amqp"
	"github.com/Ad2m1109/Spendora/internal/backend"
	"github.com/Ad2m1109/Spendora/internal/cli"
	"github.com/Ad2m1109/Spendora/internal/log"
	"github.com/Ad2m1109/Spendora/internal/services"
	"github.com/Ad2m1109/Spendora/internal/worker"
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
	}

	logger := cli.SetupLogger(log.ComponentWorker, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	logger.Info("Starting spendora-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.LogError(context.Background(), "Invalid backend configuration", log.OpStartup, err)
		os.Exit(1)
	}
	// The worker applies postings itself, so it never publishes them.
	backendCfg.GoalSyncMode = backend.GoalSyncInline
	backendCfg.SeedDefaultCategories = false

	result, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.LogError(context.Background(), "Failed to create backend", log.OpStartup, err)
		os.Exit(1)
	}

	amqpLogger := logger.WithComponent(log.ComponentAMQP)
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		amqpLogger.LogError(context.Background(), "Failed to initialize AMQP client", log.OpStartup, err)
		result.Cleanup()
		os.Exit(1)
	}
	amqpLogger.Info("Consuming postings", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	goals := result.Services.Goals
	w := worker.NewPostingWorker(services.NewGoalSync(goals), goals)

	scheduler, err := worker.NewScheduler(cfg.ReconcileSchedule, w, cfg.ShutdownTimeout, logger)
	if err != nil {
		logger.LogError(context.Background(), "Invalid reconcile schedule", log.OpStartup, err)
		client.Close()
		result.Cleanup()
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(shutdownCtx context.Context) {
		if err := client.Close(); err != nil {
			amqpLogger.LogError(shutdownCtx, "AMQP close error", log.OpShutdown, err)
		}
		if err := result.Cleanup(); err != nil {
			logger.LogError(shutdownCtx, "Backend cleanup error", log.OpShutdown, err)
		}
	})

	// A failing consumer cancels gctx, which also stops the schedule.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Run(gctx, client)
	})
	if scheduler != nil {
		g.Go(func() error {
			scheduler.Start()
			<-gctx.Done()
			stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			scheduler.Stop(stopCtx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.LogError(ctx, "Message consumption failed", log.OpConsume, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped")
}
