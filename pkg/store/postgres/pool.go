package postgres

import (
	"context"
	"fmt"
	"runtime"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wattline/emporia/pkg/defaults"
)

// PoolOptions tunes pool sizing. The zero value sizes the pool from the
// available CPUs.
type PoolOptions struct {
	MaxConns int32
}

// NewPool parses the DSN, opens a pgx connection pool, and verifies
// connectivity before returning it. Callers own the returned pool and
// must Close it.
func NewPool(ctx context.Context, dsn string, opts PoolOptions) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	cfg.MaxConnLifetime = defaults.DBMaxConnLifetime
	cfg.MaxConnIdleTime = defaults.DBMaxConnIdleTime
	cfg.MaxConns = defaultMaxConns()
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}

	connectCtx, cancel := context.WithTimeout(ctx, defaults.DBConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

func defaultMaxConns() int32 {
	n := int32(4 * runtime.NumCPU())
	if n > 32 {
		n = 32
	}
	if n < 4 {
		n = 4
	}
	return n
}
