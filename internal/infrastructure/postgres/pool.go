package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// PoolConfig tunes the connection pool and the startup retry loop.
type PoolConfig struct {
	DSN         string
	MaxConns    int32
	MinConns    int32
	MaxConnLife time.Duration
	// ConnectRetries is the number of extra attempts made while the database is still starting.
	ConnectRetries int
	RetryDelay     time.Duration
}

// NewPool opens a pgx pool and pings it, retrying with a doubling delay.
func NewPool(ctx context.Context, pc PoolConfig, logger *logrus.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(pc.DSN)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = pc.MaxConns
	cfg.MinConns = pc.MinConns
	cfg.MaxConnLifetime = pc.MaxConnLife

	delay := pc.RetryDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	for attempt := 0; ; attempt++ {
		pool, err := connect(ctx, cfg)
		if err == nil {
			return pool, nil
		}
		if attempt >= pc.ConnectRetries {
			return nil, fmt.Errorf("connect postgres after %d attempts: %w", attempt+1, err)
		}
		if logger != nil {
			logger.WithError(err).WithField("attempt", attempt+1).Warn("postgres not ready, retrying")
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect postgres canceled: %w", ctx.Err())
		case <-time.After(delay):
		}
		if delay < 5*time.Second {
			delay *= 2
		}
	}
}

func connect(ctx context.Context, cfg *pgxpool.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
