package backend

import (
	"fmt"

	"github.com/Ad2m1109/Spendora/internal/config"
	"github.com/Ad2m1109/Spendora/internal/storage"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	cfg := Config{
		Dialect:      storage.Dialect(appConfig.DataBackend),
		SQLiteDBPath: appConfig.SQLiteDBPath,
		DatabaseURL:  appConfig.DatabaseURL,

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,
		GoalSyncMode: GoalSyncMode(appConfig.GoalSyncMode),

		JWTSecret:  appConfig.JWTSecret,
		JWTTTL:     appConfig.JWTTTL,
		BcryptCost: appConfig.BcryptCost,

		SeedDefaultCategories: appConfig.SeedDefaultCategories,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Dialect.IsValid() {
		return fmt.Errorf("invalid data backend: %s", c.Dialect)
	}

	switch c.Dialect {
	case storage.SQLite:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case storage.Postgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database URL is required for postgres backend")
		}
	}

	if !c.GoalSyncMode.IsValid() {
		return fmt.Errorf("invalid goal sync mode: %s", c.GoalSyncMode)
	}
	if c.GoalSyncMode == GoalSyncAMQP && c.AMQPURL == "" {
		return fmt.Errorf("AMQP URL is required for amqp goal sync")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	return nil
}

func (c Config) storageConfig() storage.Config {
	return storage.Config{
		Dialect:     c.Dialect,
		SQLitePath:  c.SQLiteDBPath,
		PostgresURL: c.DatabaseURL,
	}
}
