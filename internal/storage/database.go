package storage

import (
	"context"
	"fmt"
	"oauth-relay/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pool is the subset of *pgxpool.Pool the provider uses.
type pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

type DatabaseProvider struct {
	pool pool
}

func NewDatabaseProvider(ctx context.Context, cfg *config.Config) (*DatabaseProvider, error) {
	if cfg.Storage == nil {
		return nil, fmt.Errorf("storage configuration is required for the postgres session store")
	}

	dbPool, err := pgxpool.New(ctx, GetConnectionStringFromConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseProvider{pool: dbPool}, nil
}

func (p *DatabaseProvider) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

func (p *DatabaseProvider) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS relay_sessions (
		id             BIGSERIAL PRIMARY KEY,
		token_hash     TEXT        NOT NULL,
		session_token  TEXT        NOT NULL,
		provider_token TEXT        NOT NULL,
		login          TEXT        NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		expires_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS relay_sessions_token_hash_idx ON relay_sessions (token_hash)`,
}

// RunMigrations creates the session table. Every statement is idempotent.
func (p *DatabaseProvider) RunMigrations(ctx context.Context) error {
	for i, statement := range migrations {
		if _, err := p.pool.Exec(ctx, statement); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
