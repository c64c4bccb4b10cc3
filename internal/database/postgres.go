package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type PostgresConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdle     time.Duration
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

// NewPostgres opens a pool on the configured driver ("pgx" or "postgres") and
// waits for the server to answer, backing off between attempts.
func NewPostgres(ctx context.Context, cfg PostgresConfig, logger *zap.SugaredLogger) (*sql.DB, error) {
	if cfg.Driver == "" {
		cfg.Driver = "pgx"
	}
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", cfg.Driver)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdle)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if err := waitForPing(ctx, db, timeout, logger); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func waitForPing(ctx context.Context, db *sql.DB, timeout time.Duration, logger *zap.SugaredLogger) error {
	deadline := time.Now().Add(timeout)
	backoff := 500 * time.Millisecond
	for {
		err := db.PingContext(ctx)
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return errors.Wrap(err, "ping postgres")
		}
		if logger != nil {
			logger.Warnw("postgres not ready yet", "error", err, "retry_in", backoff.String())
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "ping postgres")
		case <-time.After(backoff):
		}
		if backoff < 5*time.Second {
			backoff *= 2
		}
	}
}
