package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Statements are individually idempotent so startup can run them
// unconditionally. Executed one at a time; pgx's extended protocol does not
// accept multi-statement strings.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS emporia (
		id          BIGSERIAL PRIMARY KEY,
		instant     TIMESTAMPTZ NOT NULL,
		scale       VARCHAR(10) NOT NULL,
		device_gid  BIGINT NOT NULL,
		channel_num VARCHAR(20) NOT NULL,
		name        VARCHAR(120) NOT NULL,
		usage       DOUBLE PRECISION NOT NULL,
		unit        VARCHAR(20) NOT NULL,
		percentage  DOUBLE PRECISION NOT NULL,
		create_date TIMESTAMPTZ NOT NULL DEFAULT now(),
		update_date TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS emporia_instant_idx ON emporia (instant)`,
	`CREATE INDEX IF NOT EXISTS emporia_name_idx ON emporia (name)`,
}

// EnsureSchema applies the usage table DDL. The server runs it once at
// startup before accepting requests.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaDDL {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply emporia schema: %w", err)
		}
	}
	return nil
}
