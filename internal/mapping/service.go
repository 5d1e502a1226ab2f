package mapping

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ramis-khasianov/uchr-scetl/internal/directory"
	"github.com/ramis-khasianov/uchr-scetl/internal/model"
	"github.com/ramis-khasianov/uchr-scetl/internal/normalize"
)

// Service orchestrates one mapping run end to end and the manual-override
// import. It has no dependency on net/http — it can be driven by the HTTP
// handler, the cron scheduler, or tests alike.
type Service struct {
	store     *Store
	rdb       *redis.Client
	reviewDir string
}

// NewService returns a configured Service.
func NewService(store *Store, rdb *redis.Client, reviewDir string) *Service {
	return &Service{store: store, rdb: rdb, reviewDir: reviewDir}
}

// RunStats summarizes one mapping run for callers and for the event stream.
type RunStats struct {
	TotalAccounts int    `json:"totalAccounts"`
	Skipped       int    `json:"skipped"` // already mapped on a previous run
	Mapped        int    `json:"mapped"`
	Pending       int    `json:"pending"` // accounts, not exploded rows
	ExportPath    string `json:"exportPath,omitempty"`
}

// Run executes one full mapping pass: load inputs, resolve every account not
// already mapped, persist both result sets atomically, export the review
// file. All three input loads must succeed before any resolution starts; a
// failed run writes nothing and leaves the prior persisted state in force.
func (s *Service) Run(ctx context.Context) (RunStats, error) {
	var stats RunStats

	known, err := s.store.KnownMappedAccounts(ctx)
	if err != nil {
		return stats, fmt.Errorf("load known mappings: %w", err)
	}

	accounts, err := s.store.LoadCloudAccounts(ctx)
	if err != nil {
		return stats, fmt.Errorf("load cloud accounts: %w", err)
	}

	rawHr, err := s.store.LoadHrDirectory(ctx)
	if err != nil {
		return stats, fmt.Errorf("load hr directory: %w", err)
	}

	hr := make([]model.HrRecord, 0, len(rawHr))
	for _, raw := range rawHr {
		hr = append(hr, normalize.HrRecord(raw))
	}
	idx := directory.Build(hr)

	stats.TotalAccounts = len(accounts)
	now := time.Now().UTC()

	unmapped, skipped := filterUnmapped(accounts, known)
	stats.Skipped = skipped

	var mapped []model.MappingRecord
	var needReview []model.MatchResult
	for _, acct := range unmapped {
		res := Resolve(normalize.CloudAccount(acct), idx)
		if res.Method.Resolved() {
			mapped = append(mapped, model.MappingRecord{
				HrSystem:    res.HrSystem,
				SystemEmail: res.SystemEmail,
				EmployeeID:  res.EmployeeIDs[0],
				Method:      res.Method,
				Source:      res.Source,
				LastUpdate:  now,
			})
		} else {
			needReview = append(needReview, res)
		}
	}
	stats.Mapped = len(mapped)
	stats.Pending = len(needReview)

	// Read the previous queue before SaveRunResults replaces it, so re-queued
	// accounts keep their already_mapped annotation.
	queued, err := s.store.PreviouslyQueued(ctx)
	if err != nil {
		return stats, fmt.Errorf("load previous queue: %w", err)
	}
	pending := explodePending(needReview, queued)

	if err := s.store.SaveRunResults(ctx, mapped, pending); err != nil {
		return stats, fmt.Errorf("persist run results: %w", err)
	}

	path, err := ExportForReview(s.reviewDir, pending)
	if err != nil {
		return stats, fmt.Errorf("export review file: %w", err)
	}
	stats.ExportPath = path

	slog.Info("mapping run complete",
		"total", stats.TotalAccounts, "skipped", stats.Skipped,
		"mapped", stats.Mapped, "pending", stats.Pending)

	s.publishRunComplete(ctx, stats)

	return stats, nil
}

// filterUnmapped drops every account already covered by an automatic or
// manual mapping, comparing on the raw platform email exactly as stored in
// system_email. Skipped accounts never reach the cascade, which makes reruns
// idempotent and lets a manual override stand regardless of what the cascade
// would now produce for that account.
func filterUnmapped(accounts []model.CloudAccount, known map[string]struct{}) (unmapped []model.CloudAccount, skipped int) {
	for _, acct := range accounts {
		if _, ok := known[acct.Email]; ok {
			skipped++
			continue
		}
		unmapped = append(unmapped, acct)
	}
	return unmapped, skipped
}

// explodePending turns each unresolved MatchResult into one pending row per
// candidate employee id, annotating accounts that were already queued on a
// previous run.
func explodePending(results []model.MatchResult, previouslyQueued map[string]struct{}) []model.PendingItem {
	var pending []model.PendingItem
	for _, res := range results {
		_, already := previouslyQueued[res.SystemEmail]
		for _, id := range res.EmployeeIDs {
			pending = append(pending, model.PendingItem{
				HrSystem:       res.HrSystem,
				SystemEmail:    res.SystemEmail,
				PossibleOption: id,
				Method:         res.Method,
				Source:         res.Source,
				AlreadyMapped:  already,
			})
		}
	}
	return pending
}

// ImportManual absorbs the reviewer-edited file into the manual-override
// table and returns the number of rows loaded. Overridden accounts count as
// already mapped on every subsequent run.
func (s *Service) ImportManual(ctx context.Context) (int, error) {
	overrides, err := ReadManualOverrides(s.reviewDir, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	if err := s.store.ReplaceManualOverrides(ctx, overrides); err != nil {
		return 0, err
	}

	slog.Info("manual overrides imported", "rows", len(overrides))
	return len(overrides), nil
}

// PendingReview returns the current review queue for the HTTP surface.
func (s *Service) PendingReview(ctx context.Context) ([]model.PendingItem, error) {
	return s.store.LoadPending(ctx)
}

// publishRunComplete emits the run summary to Redis for downstream
// consumers. Failure to publish never fails the run.
func (s *Service) publishRunComplete(ctx context.Context, stats RunStats) {
	if s.rdb == nil {
		return
	}
	event, _ := json.Marshal(struct {
		Type string `json:"type"`
		RunStats
	}{Type: "EVENT_MAPPING_RUN_COMPLETE", RunStats: stats})
	if err := s.rdb.Publish(ctx, "EVENT_MAPPING_RUN_COMPLETE", event).Err(); err != nil {
		slog.Warn("publish EVENT_MAPPING_RUN_COMPLETE failed", "err", err)
	}
}
