package platform

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ramis-khasianov/uchr-scetl/internal/model"
)

// Syncer runs the full account-ingest cycle across all configured platforms.
// Each platform's rows in cloud_platform_users are replaced in one
// transaction; a platform that fails leaves its previous snapshot in place
// and does not block the others.
type Syncer struct {
	pool    *pgxpool.Pool
	clients []Client
}

// NewSyncer constructs a Syncer.
func NewSyncer(pool *pgxpool.Pool, clients []Client) *Syncer {
	return &Syncer{pool: pool, clients: clients}
}

// Run fetches and stores accounts for every platform. Per-platform errors
// are logged and skipped, matching the ingest contract: a stale snapshot
// beats a half-written one.
func (s *Syncer) Run(ctx context.Context) error {
	for _, c := range s.clients {
		accounts, err := c.FetchAccounts(ctx)
		if err != nil {
			log.Printf("[sync] %s fetch error: %v — keeping previous snapshot", c.Name(), err)
			continue
		}
		if accounts == nil {
			log.Printf("[sync] %s not configured — skipping", c.Name())
			continue
		}

		if err := s.replacePlatformRows(ctx, c.Name(), accounts); err != nil {
			log.Printf("[sync] %s store error: %v", c.Name(), err)
			continue
		}
		log.Printf("[sync] %s: stored %d accounts", c.Name(), len(accounts))
	}
	return nil
}

// replacePlatformRows swaps one platform's slice of the ingest table.
func (s *Syncer) replacePlatformRows(ctx context.Context, name string, accounts []model.CloudAccount) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM cloud_platform_users WHERE hr_system = $1`, name)
	for _, a := range accounts {
		batch.Queue(
			`INSERT INTO cloud_platform_users
			   (hr_system, email, last_name, first_name, middle_name, last_update)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			a.HrSystem, a.Email, a.LastName, a.FirstName, a.MiddleName, now,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("replace %s rows: %w", name, err)
	}

	return tx.Commit(ctx)
}
