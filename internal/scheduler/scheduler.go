// Package scheduler wires up the cron job that periodically refreshes
// platform accounts and reruns the mapping cascade over whatever is new.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/ramis-khasianov/uchr-scetl/internal/mapping"
	"github.com/ramis-khasianov/uchr-scetl/internal/platform"
)

// Scheduler wraps robfig/cron and manages the sync→map cycle.
type Scheduler struct {
	cron   *cron.Cron
	syncer *platform.Syncer
	svc    *mapping.Service
	spec   string // cron spec, e.g. "@every 12h"
}

// New creates a Scheduler that fires every intervalHours hours.
func New(syncer *platform.Syncer, svc *mapping.Service, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cron.DefaultLogger)),
		syncer: syncer,
		svc:    svc,
		spec:   fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one cycle
// immediately so a fresh deployment maps without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s", s.spec)

	// Run immediately on startup (non-blocking)
	go s.runCycle(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

// runCycle pulls fresh platform accounts, then maps the new ones. A failed
// sync still runs the mapper: yesterday's accounts are better than none,
// and a failed mapping run persists nothing by contract.
func (s *Scheduler) runCycle(ctx context.Context) {
	log.Println("[scheduler] Sync cycle started")

	if err := s.syncer.Run(ctx); err != nil {
		log.Printf("[scheduler] Platform sync error: %v", err)
	}

	stats, err := s.svc.Run(ctx)
	if err != nil {
		log.Printf("[scheduler] Mapping run error: %v", err)
		return
	}

	log.Printf("[scheduler] Cycle complete — total=%d skipped=%d mapped=%d pending=%d",
		stats.TotalAccounts, stats.Skipped, stats.Mapped, stats.Pending)
}
