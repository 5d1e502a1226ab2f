// HTTP surface of the mapping service.
//
// Routes:
//
//	POST /mapping/run            → run the full match cascade now
//	POST /mapping/import-manual  → absorb the reviewed CSV into manual overrides
//	GET  /mapping/pending        → current review queue as JSON
//	POST /sync/run               → pull fresh accounts from the cloud platforms
package mapping

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ramis-khasianov/uchr-scetl/internal/model"
)

// AccountSyncer triggers a platform-account sync; implemented by
// platform.Syncer. Declared here so the handler does not depend on the
// platform package.
type AccountSyncer interface {
	Run(ctx context.Context) error
}

// Handler exposes the mapping service over HTTP.
type Handler struct {
	svc    *Service
	syncer AccountSyncer
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service, syncer AccountSyncer) *Handler {
	return &Handler{svc: svc, syncer: syncer}
}

// RegisterRoutes mounts all mapping-service routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/mapping/run", h.handleRun)
	mux.HandleFunc("/mapping/import-manual", h.handleImportManual)
	mux.HandleFunc("/mapping/pending", h.handlePending)
	mux.HandleFunc("/sync/run", h.handleSync)
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.svc.Run(r.Context())
	if err != nil {
		log.Printf("[mapper] mapping run failed: %v", err)
		jsonError(w, "mapping run failed", http.StatusInternalServerError)
		return
	}

	jsonOK(w, stats)
}

func (h *Handler) handleImportManual(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	n, err := h.svc.ImportManual(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoReviewFile) {
			jsonError(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("[mapper] manual import failed: %v", err)
		jsonError(w, "manual import failed", http.StatusInternalServerError)
		return
	}

	jsonOK(w, map[string]int{"imported": n})
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pending, err := h.svc.PendingReview(r.Context())
	if err != nil {
		log.Printf("[mapper] pending query failed: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}
	if pending == nil {
		pending = []model.PendingItem{}
	}

	jsonOK(w, pending)
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.syncer.Run(r.Context()); err != nil {
		log.Printf("[mapper] platform sync failed: %v", err)
		jsonError(w, "platform sync failed", http.StatusInternalServerError)
		return
	}

	jsonOK(w, map[string]string{"status": "ok"})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
