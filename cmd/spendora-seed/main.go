package main

import (
	"context"
	"flag"
	"os"

	"github.com/Ad2m1109/Spendora/internal/backend"
	"github.com/Ad2m1109/Spendora/internal/cli"
	"github.com/Ad2m1109/Spendora/internal/log"
	"github.com/Ad2m1109/Spendora/internal/seed"
)

func main() {
	transactions := flag.Int("transactions", 40, "number of random transactions to create")
	days := flag.Int("days", 30, "spread transactions over this many past days")
	randSeed := flag.Int64("seed", 0, "random seed, 0 for a random one")
	flag.Parse()

	if err := cli.LoadEnvFile(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
	}

	logger := cli.SetupLogger(log.ComponentSeed, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", "error", err)
		os.Exit(1)
	}
	defer result.Cleanup()

	res, err := seed.Run(ctx, result.Services, seed.Options{
		Transactions: *transactions,
		Days:         *days,
		Seed:         *randSeed,
	})
	if err != nil {
		logger.Error("Seeding failed", "error", err)
		result.Cleanup()
		os.Exit(1)
	}

	logger.Info("Seed complete",
		"user_id", res.UserID,
		"email", res.Email,
		"password", res.Password,
		"transactions", res.Transactions,
		"goal_id", res.GoalID,
		"goal_sync", result.GoalSync)
}
