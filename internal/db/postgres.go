// Package db opens the service's backing connections: the Postgres pool the
// mapping tables and DWH views live behind, and the Redis client used for
// token caching and run events.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPostgresPool opens a pgxpool against the DWH and verifies it responds
// before any view is queried.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping dwh: %w", err)
	}

	return pool, nil
}
