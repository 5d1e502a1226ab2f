package mapping

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ramis-khasianov/uchr-scetl/internal/model"
)

// Store wraps all Postgres access of the mapping engine. Inputs are the
// read-only DWH views (v_hr_mapping, v_hr_cloud_users, v_hr_cloud_mapping);
// outputs are the three result tables owned by this service.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a configured Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// isUndefinedTable reports whether err is Postgres "relation does not exist".
// First runs happen before any result table was written; reads of our own
// output tables treat that as an empty prior state rather than a failure.
func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P01"
}

// LoadHrDirectory reads the full current HR snapshot from v_hr_mapping.
func (s *Store) LoadHrDirectory(ctx context.Context) ([]model.RawHrRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT employee_uid, COALESCE(employee_name, ''), COALESCE(email, ''),
		        exit_date, COALESCE(main_workplace, false)
		 FROM v_hr_mapping`,
	)
	if err != nil {
		return nil, fmt.Errorf("query v_hr_mapping: %w", err)
	}
	defer rows.Close()

	var records []model.RawHrRecord
	for rows.Next() {
		var r model.RawHrRecord
		if err := rows.Scan(&r.EmployeeUID, &r.EmployeeName, &r.Email, &r.ExitDate, &r.MainWorkplace); err != nil {
			return nil, fmt.Errorf("scan v_hr_mapping: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// LoadCloudAccounts reads all platform-reported accounts from v_hr_cloud_users.
func (s *Store) LoadCloudAccounts(ctx context.Context) ([]model.CloudAccount, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT hr_system, COALESCE(email, ''), COALESCE(last_name, ''),
		        COALESCE(first_name, ''), COALESCE(middle_name, '')
		 FROM v_hr_cloud_users`,
	)
	if err != nil {
		return nil, fmt.Errorf("query v_hr_cloud_users: %w", err)
	}
	defer rows.Close()

	var accounts []model.CloudAccount
	for rows.Next() {
		var a model.CloudAccount
		if err := rows.Scan(&a.HrSystem, &a.Email, &a.LastName, &a.FirstName, &a.MiddleName); err != nil {
			return nil, fmt.Errorf("scan v_hr_cloud_users: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// KnownMappedAccounts returns the system_email set already covered by an
// automatic or manual mapping. Accounts in this set are never re-evaluated:
// manual overrides in particular take precedence over anything the cascade
// would independently produce. A missing view means nothing was mapped yet.
func (s *Store) KnownMappedAccounts(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT system_email FROM v_hr_cloud_mapping`)
	if err != nil {
		if isUndefinedTable(err) {
			return map[string]struct{}{}, nil
		}
		return nil, fmt.Errorf("query v_hr_cloud_mapping: %w", err)
	}
	defer rows.Close()

	known := make(map[string]struct{})
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan v_hr_cloud_mapping: %w", err)
		}
		known[email] = struct{}{}
	}
	return known, rows.Err()
}

// PreviouslyQueued returns the system_email set present in the pending table
// from the previous run, used to annotate re-queued rows for reviewers.
func (s *Store) PreviouslyQueued(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT system_email FROM hr_cloud_mapping_needed`)
	if err != nil {
		if isUndefinedTable(err) {
			return map[string]struct{}{}, nil
		}
		return nil, fmt.Errorf("query hr_cloud_mapping_needed: %w", err)
	}
	defer rows.Close()

	queued := make(map[string]struct{})
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan hr_cloud_mapping_needed: %w", err)
		}
		queued[email] = struct{}{}
	}
	return queued, rows.Err()
}

// LoadPending returns the full current pending-review queue.
func (s *Store) LoadPending(ctx context.Context) ([]model.PendingItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT hr_system, system_email, possible_options, mapping_method, mapping_source, already_mapped
		 FROM hr_cloud_mapping_needed
		 ORDER BY already_mapped, system_email`,
	)
	if err != nil {
		if isUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("query hr_cloud_mapping_needed: %w", err)
	}
	defer rows.Close()

	var pending []model.PendingItem
	for rows.Next() {
		var p model.PendingItem
		var method, source string
		if err := rows.Scan(&p.HrSystem, &p.SystemEmail, &p.PossibleOption, &method, &source, &p.AlreadyMapped); err != nil {
			return nil, fmt.Errorf("scan hr_cloud_mapping_needed: %w", err)
		}
		p.Method = model.Method(method)
		p.Source = model.Source(source)
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// SaveRunResults persists one run's output atomically: resolved mappings are
// appended to hr_cloud_mapped_auto (prior rows are never touched) and the
// pending-review table is replaced wholesale. A crash mid-run leaves the
// previous state authoritative — either both writes land or neither does.
func (s *Store) SaveRunResults(ctx context.Context, mapped []model.MappingRecord, pending []model.PendingItem) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, m := range mapped {
		batch.Queue(
			`INSERT INTO hr_cloud_mapped_auto
			   (hr_system, system_email, employee_id, mapping_method, mapping_source, last_update)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			m.HrSystem, m.SystemEmail, m.EmployeeID, string(m.Method), string(m.Source), m.LastUpdate,
		)
	}

	batch.Queue(`DELETE FROM hr_cloud_mapping_needed`)
	for _, p := range pending {
		batch.Queue(
			`INSERT INTO hr_cloud_mapping_needed
			   (hr_system, system_email, possible_options, mapping_method, mapping_source, already_mapped)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			p.HrSystem, p.SystemEmail, p.PossibleOption, string(p.Method), string(p.Source), p.AlreadyMapped,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("write run results: %w", err)
	}

	return tx.Commit(ctx)
}

// ReplaceManualOverrides swaps in the reviewed mappings wholesale. The
// reviewer's corrected file is always the new ground truth, so the manual
// table is replaced rather than appended to.
func (s *Store) ReplaceManualOverrides(ctx context.Context, overrides []model.ManualOverride) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM hr_cloud_mapped_manual`)
	for _, o := range overrides {
		batch.Queue(
			`INSERT INTO hr_cloud_mapped_manual (hr_system, system_email, employee_id, last_update)
			 VALUES ($1, $2, $3, $4)`,
			o.HrSystem, o.SystemEmail, o.EmployeeID, o.LastUpdate,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("replace manual overrides: %w", err)
	}

	return tx.Commit(ctx)
}
