package api

import (
	"net/http"
	"strconv"

	"github.com/stackTD/NextSight-v2/internal/store"
)

const defaultEventLimit = 50

// EventsAPIHandler serves the persisted audit trail at /api/events.
type EventsAPIHandler struct {
	store *store.Store
}

// NewEventsAPIHandler creates a new EventsAPIHandler backed by the audit
// store.
func NewEventsAPIHandler(s *store.Store) *EventsAPIHandler {
	return &EventsAPIHandler{store: s}
}

// ServeHTTP handles GET /api/events with optional limit and zone query
// parameters.
func (h *EventsAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := defaultEventLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit: "+v)
			return
		}
		limit = n
	}

	var (
		events []*store.EventRecord
		err    error
	)
	if zoneID := r.URL.Query().Get("zone"); zoneID != "" {
		events, err = h.store.Events().ForZone(zoneID, limit)
	} else {
		events, err = h.store.Events().Recent(limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load events: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}
