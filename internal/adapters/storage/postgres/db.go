package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pura-pata/internal/adapters/storage/postgres/migrations"
	"pura-pata/internal/platform/logger"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type OpenOptions struct {
	MaxOpenConns int
	// ConnectTimeout es el tiempo total de reintentos del ping inicial.
	ConnectTimeout time.Duration
	Log            logger.Logger
}

// Open abre un pool a Postgres usando pgx (database/sql) y reintenta el ping
// con backoff exponencial hasta ConnectTimeout.
func Open(ctx context.Context, dsn string, opts OpenOptions) (*sql.DB, error) {
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 30 * time.Second
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxOpenConns / 2)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = opts.ConnectTimeout

	attempt := 0
	ping := func() error {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		return db.PingContext(pctx)
	}
	notify := func(err error, next time.Duration) {
		attempt++
		opts.Log.Warn("postgres not ready, retrying", map[string]any{
			"error":         err,
			"attempt":       attempt,
			"next_retry_in": next.String(),
		})
	}

	if err := backoff.RetryNotify(ping, backoff.WithContext(b, ctx), notify); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// Migrate aplica las migraciones embebidas con goose.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
