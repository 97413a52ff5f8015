package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ad2m1109/Spendora/internal/amqp"
	"github.com/Ad2m1109/Spendora/internal/auth"
	"github.com/Ad2m1109/Spendora/internal/log"
	"github.com/Ad2m1109/Spendora/internal/services"
	"github.com/Ad2m1109/Spendora/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend opens the store, seeds default categories when asked and
// wires the services. In amqp goal sync mode a broker that cannot be reached
// degrades to inline sync instead of failing startup.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, config.storageConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	f.logger.WithComponent(log.ComponentStorage).Info("Store opened and migrated", "dialect", store.Dialect())

	svc := newServices(store, config)

	if config.SeedDefaultCategories {
		n, err := svc.Categories.SeedDefaults(ctx)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("seed default categories: %w", err)
		}
		if n > 0 {
			f.logger.Info("Seeded default categories", "count", n)
		}
	}

	mode := GoalSyncInline
	var amqpClient *amqp.Client
	if config.GoalSyncMode == GoalSyncAMQP {
		amqpLogger := f.logger.WithComponent(log.ComponentAMQP)
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			amqpLogger.Warn("Failed to initialize AMQP client, applying goal postings inline", "error", err)
		} else {
			mode = GoalSyncAMQP
			amqpLogger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	var postings services.PostingHandler = services.NewGoalSync(svc.Goals)
	if amqpClient != nil {
		postings = services.NewAMQPPostingPublisher(amqpClient)
	}
	svc.Ledger = services.NewLedgerService(store, postings)

	f.logger.Info("Initialized backend",
		"dialect", store.Dialect(),
		"goal_sync", mode)

	return &BackendResult{
		Services: svc,
		GoalSync: mode,
		Cleanup: func() error {
			var errs []error
			if amqpClient != nil {
				errs = append(errs, amqpClient.Close())
			}
			errs = append(errs, store.Close())
			return errors.Join(errs...)
		},
	}, nil
}

func newServices(store *storage.Store, config Config) *Services {
	ttl := config.JWTTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	tokens := auth.NewTokenManager(config.JWTSecret, ttl)
	goals := services.NewGoalService(store)
	return &Services{
		Store:      store,
		Tokens:     tokens,
		Users:      services.NewUserService(store, auth.NewHasher(config.BcryptCost), tokens),
		Categories: services.NewCategoryService(store),
		Ledger:     services.NewLedgerService(store, services.NewGoalSync(goals)),
		Goals:      goals,
		Aggregates: services.NewAggregationService(store),
		Reports:    services.NewReportService(store),
	}
}
