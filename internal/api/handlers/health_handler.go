package handlers

import (
	"net/http"
	"time"

	"github.com/isdelr/fittrack-be/internal/database"
	"github.com/isdelr/fittrack-be/internal/monitoring"
	"github.com/rs/zerolog/log"
)

// StatsProvider reports the state of the document store.
type StatsProvider interface {
	Stats() (database.Stats, error)
}

// HealthHandler serves liveness and diagnostics endpoints.
type HealthHandler struct {
	store StatsProvider
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store StatsProvider) *HealthHandler {
	return &HealthHandler{store: store}
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type detailsResponse struct {
	healthResponse
	Store  *database.Stats        `json:"store,omitempty"`
	Error  string                 `json:"error,omitempty"`
	System monitoring.SystemStats `json:"system"`
}

// Health reports that the process is up.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "OK", Timestamp: time.Now().UTC()})
}

// Details reports store and system statistics. A store that cannot be read
// turns the status to DEGRADED but still answers 200.
func (h *HealthHandler) Details(w http.ResponseWriter, r *http.Request) {
	resp := detailsResponse{
		healthResponse: healthResponse{Status: "OK", Timestamp: time.Now().UTC()},
		System:         monitoring.CollectSystemStats(r.Context()),
	}

	stats, err := h.store.Stats()
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to read store stats")
		resp.Status = "DEGRADED"
		resp.Error = "document store unavailable"
	} else {
		resp.Store = &stats
	}
	writeJSON(w, http.StatusOK, resp)
}
