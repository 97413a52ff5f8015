package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Config selects and locates the database.
type Config struct {
	Dialect     Dialect
	SQLitePath  string
	PostgresURL string
}

func (c Config) dsn() string {
	if c.Dialect == Postgres {
		return c.PostgresURL
	}
	return SQLiteDSN(c.SQLitePath)
}

// Store owns the connection pool and the transaction boundaries.
type Store struct {
	db      *sql.DB
	dialect Dialect
	queries *Queries
}

// Open connects, pings and migrates the database described by cfg.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if !cfg.Dialect.IsValid() {
		return nil, fmt.Errorf("unsupported dialect %q", cfg.Dialect)
	}

	if cfg.Dialect == SQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open(cfg.Dialect.DriverName(), cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Dialect, err)
	}
	if cfg.Dialect == SQLite {
		// One writer at a time; concurrent readers queue on the pool.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(cfg.Dialect, cfg.dsn()); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.InfoContext(ctx, "Database ready", "dialect", cfg.Dialect)

	return &Store{
		db:      db,
		dialect: cfg.Dialect,
		queries: New(db, cfg.Dialect),
	}, nil
}

// Queries runs single statements directly on the pool. Do not call it from
// inside InTx: with SQLite the pool holds a single connection.
func (s *Store) Queries() *Queries {
	return s.queries
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

// InTx runs fn inside a transaction. The transaction commits when fn returns
// nil and rolls back on any error or panic.
func (s *Store) InTx(ctx context.Context, fn func(q *Queries) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.ErrorContext(ctx, "Rollback failed", "error", rbErr)
			}
		}
	}()

	if err = fn(s.queries.WithTx(tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsUniqueViolation reports whether err came from a unique index.
func IsUniqueViolation(err error) bool {
	return errors.Is(err, ErrUniqueViolation)
}
