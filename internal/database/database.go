// Package database provides PostgreSQL connection management using pgx
// and schema migrations using goose.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/activity-board/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

const connectAttempts = 5

// retryWait is the pause between attempts.
var retryWait = 2 * time.Second

// NewPool creates and validates a pgxpool connection pool.
// It retries a few times to accommodate containers starting up.
func NewPool(ctx context.Context, cfg config.PostgresConfig, log *zap.SugaredLogger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	var pool *pgxpool.Pool
	err = retry(ctx, log, "db connect", func() error {
		pool, err = connect(ctx, poolCfg, cfg.QueryTimeout)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return pool, nil
}

func connect(ctx context.Context, poolCfg *pgxpool.Config, timeout time.Duration) (*pgxpool.Pool, error) {
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping pool: %w", err)
	}
	return pool, nil
}

// Migrate applies the embedded schema migrations, retrying like NewPool.
func Migrate(ctx context.Context, cfg config.PostgresConfig, log *zap.SugaredLogger) error {
	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("open sql: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	migrateCtx, cancel := context.WithTimeout(ctx, cfg.MigrateTimeout)
	defer cancel()

	err = retry(migrateCtx, log, "db migrate", func() error {
		return goose.UpContext(migrateCtx, sqlDB, "migrations")
	})
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// retry runs fn up to connectAttempts times, waiting retryWait between
// failures. It gives up early when ctx is done.
func retry(ctx context.Context, log *zap.SugaredLogger, what string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		log.Warnw(what+" attempt failed", "attempt", attempt, "of", connectAttempts, "error", err)
		if attempt == connectAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryWait):
		}
	}
	return err
}
