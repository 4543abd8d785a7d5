package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/stackTD/NextSight-v2/internal/app"
)

// ProcessHandler handles requests to /api/processes and /api/processes/{id}.
type ProcessHandler struct {
	app *app.App
}

// NewProcessHandler creates a new ProcessHandler backed by the application.
func NewProcessHandler(a *app.App) *ProcessHandler {
	return &ProcessHandler{app: a}
}

// createProcessRequest is the body of POST /api/processes.
type createProcessRequest struct {
	Name string `json:"name"`
}

// associateZonesRequest is the body of POST /api/processes/{id}/zones.
type associateZonesRequest struct {
	PickZoneID string `json:"pick_zone_id"`
	DropZoneID string `json:"drop_zone_id"`
}

// ServeHTTP routes process requests by path and method.
func (h *ProcessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/processes")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if path == "picks" && r.Method == http.MethodGet {
		h.activePicks(w, r)
		return
	}

	id := path
	if rest := strings.SplitN(path, "/", 2); len(rest) == 2 {
		id = rest[0]
		if rest[1] == "zones" && r.Method == http.MethodPost {
			h.associateZones(w, r, id)
			return
		}
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *ProcessHandler) list(w http.ResponseWriter, r *http.Request) {
	processes := h.app.Processes().All()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"processes": processes,
		"count":     len(processes),
	})
}

func (h *ProcessHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p := h.app.Processes().Create(req.Name)
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProcessHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	p, ok := h.app.Processes().Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Process not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProcessHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if !h.app.Processes().Delete(id) {
		writeError(w, http.StatusNotFound, "Process not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (h *ProcessHandler) associateZones(w http.ResponseWriter, r *http.Request, id string) {
	var req associateZonesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	registry := h.app.Zones()
	if req.PickZoneID != "" {
		if _, ok := registry.Get(req.PickZoneID); !ok {
			writeError(w, http.StatusBadRequest, "Unknown pick zone: "+req.PickZoneID)
			return
		}
	}
	if req.DropZoneID != "" {
		if _, ok := registry.Get(req.DropZoneID); !ok {
			writeError(w, http.StatusBadRequest, "Unknown drop zone: "+req.DropZoneID)
			return
		}
	}

	if !h.app.Processes().AssociateZones(id, req.PickZoneID, req.DropZoneID) {
		writeError(w, http.StatusNotFound, "Process not found: "+id)
		return
	}

	p, _ := h.app.Processes().Get(id)
	writeJSON(w, http.StatusOK, p)
}

func (h *ProcessHandler) activePicks(w http.ResponseWriter, r *http.Request) {
	picks := h.app.Processes().ActivePicks()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"active_picks": picks,
		"count":        len(picks),
	})
}
