package api

import (
	"log"
	"net/http"

	"github.com/stackTD/NextSight-v2/internal/app"
	"github.com/stackTD/NextSight-v2/internal/store"
)

// StatsHandler handles GET requests to /api/stats, aggregating zone,
// process, session, and frame statistics into a single snapshot.
type StatsHandler struct {
	app   *app.App
	store *store.Store
}

// NewStatsHandler creates a new StatsHandler. The store may be nil, in
// which case audit counts are omitted.
func NewStatsHandler(a *app.App, s *store.Store) *StatsHandler {
	return &StatsHandler{app: a, store: s}
}

// ServeHTTP handles GET /api/stats.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	response := map[string]interface{}{
		"zones":     h.app.Zones().Stats(),
		"processes": h.app.Processes().Statistics(),
		"session":   h.app.Router().Stats(),
		"frame":     h.app.LastFrame().Stats,
		"detection": map[string]interface{}{
			"enabled": h.app.IsEnabled(),
			"method":  h.app.Intersections().Method(),
		},
	}

	if h.store != nil {
		counts, err := h.store.Events().CountByType()
		if err != nil {
			log.Printf("api: event counts: %v", err)
		} else {
			response["event_counts"] = counts
		}
	}

	writeJSON(w, http.StatusOK, response)
}
