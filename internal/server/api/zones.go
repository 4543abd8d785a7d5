package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/stackTD/NextSight-v2/internal/app"
	"github.com/stackTD/NextSight-v2/internal/zone"
)

// ZoneHandler handles requests to /api/zones and /api/zones/{id}.
type ZoneHandler struct {
	app *app.App
}

// NewZoneHandler creates a new ZoneHandler backed by the application.
func NewZoneHandler(a *app.App) *ZoneHandler {
	return &ZoneHandler{app: a}
}

// createZoneRequest is the body of POST /api/zones.
type createZoneRequest struct {
	Name     string  `json:"name"`
	ZoneType string  `json:"zone_type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// updateZoneRequest is the body of PUT /api/zones/{id}. Pointer fields
// distinguish absent keys from zero values.
type updateZoneRequest struct {
	Name                *string  `json:"name"`
	Active              *bool    `json:"active"`
	X                   *float64 `json:"x"`
	Y                   *float64 `json:"y"`
	Width               *float64 `json:"width"`
	Height              *float64 `json:"height"`
	ConfidenceThreshold *float64 `json:"confidence_threshold"`
}

// ServeHTTP routes zone requests by path and method.
func (h *ZoneHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/zones")
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

	id := path
	if rest := strings.SplitN(path, "/", 2); len(rest) == 2 {
		id = rest[0]
		if rest[1] == "status" && r.Method == http.MethodGet {
			h.status(w, r, id)
			return
		}
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *ZoneHandler) list(w http.ResponseWriter, r *http.Request) {
	registry := h.app.Zones()

	var live []*zone.Zone
	if t := r.URL.Query().Get("type"); t != "" {
		zoneType := zone.Type(t)
		if !zoneType.Valid() {
			writeError(w, http.StatusBadRequest, "Invalid zone type: "+t)
			return
		}
		live = registry.ByType(zoneType)
	} else {
		live = registry.All()
	}

	// Snapshot before marshalling; the frame loop keeps mutating the
	// originals.
	zones := make([]*zone.Zone, len(live))
	for i, z := range live {
		zones[i] = z.Clone()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"zones": zones,
		"count": len(zones),
	})
}

func (h *ZoneHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	zoneType := zone.Type(req.ZoneType)
	if !zoneType.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid zone type: "+req.ZoneType)
		return
	}

	z, err := h.app.CreateZone(req.Name, zoneType, req.X, req.Y, req.Width, req.Height)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, z)
}

func (h *ZoneHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	z, ok := h.app.Zones().Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Zone not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, z.Clone())
}

func (h *ZoneHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	registry := h.app.Zones()

	z, ok := registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Zone not found: "+id)
		return
	}

	var req updateZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	updated := z.Clone()
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Active != nil {
		updated.Active = *req.Active
	}
	if req.X != nil {
		updated.X = *req.X
	}
	if req.Y != nil {
		updated.Y = *req.Y
	}
	if req.Width != nil {
		updated.Width = *req.Width
	}
	if req.Height != nil {
		updated.Height = *req.Height
	}
	if req.ConfidenceThreshold != nil {
		updated.ConfidenceThreshold = *req.ConfidenceThreshold
	}

	if err := updated.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	registry.Update(updated)
	if err := registry.Save(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist zones: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *ZoneHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if !h.app.DeleteZone(id) {
		writeError(w, http.StatusNotFound, "Zone not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (h *ZoneHandler) status(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := h.app.Zones().Get(id); !ok {
		writeError(w, http.StatusNotFound, "Zone not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, h.app.Intersections().Status(id))
}
