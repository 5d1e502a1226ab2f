// uchr-scetl mapping service
//
// Links user accounts from the external cloud platforms (learning and
// assessment tools) to canonical employee records in the HR system of
// record, so activity in those platforms can be attributed to a real
// employee for reporting.
//
//   - periodic sync pulls platform accounts into cloud_platform_users
//   - the match cascade resolves new accounts against v_hr_mapping
//   - unresolved accounts go to hr_cloud_mapping_needed + a review CSV
//   - reviewed corrections come back via /mapping/import-manual
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ramis-khasianov/uchr-scetl/internal/config"
	"github.com/ramis-khasianov/uchr-scetl/internal/db"
	"github.com/ramis-khasianov/uchr-scetl/internal/mapping"
	"github.com/ramis-khasianov/uchr-scetl/internal/platform"
	"github.com/ramis-khasianov/uchr-scetl/internal/scheduler"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[mapper] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[mapper] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[mapper] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[mapper] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[mapper] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[mapper] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[mapper] Redis connected ✓")

	// ── Wiring ───────────────────────────────────────────────────────────────
	store := mapping.NewStore(pool)
	svc := mapping.NewService(store, rdb, cfg.ReviewDir)

	tokens := platform.NewTokenStore(rdb)
	clients := []platform.Client{
		platform.NewLmsClient(cfg.LmsAPIURL, cfg.LmsAPIToken),
		platform.NewAssessClient(cfg.AssessAPIURL, cfg.AssessTokenURL,
			cfg.AssessRefreshToken, cfg.AssessOrgID, tokens),
	}
	syncer := platform.NewSyncer(pool, clients)

	// ── Scheduler ────────────────────────────────────────────────────────────
	sched := scheduler.New(syncer, svc, cfg.SyncIntervalHours)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[mapper] Scheduler: %v", err)
	}
	defer sched.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	h := mapping.NewHandler(svc, syncer)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // a full mapping run can take a while
	}

	go func() {
		log.Printf("[mapper] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[mapper] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[mapper] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[mapper] Shutdown error: %v", err)
	}
	log.Println("[mapper] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "uchr-scetl",
		"version": version,
	})
}
