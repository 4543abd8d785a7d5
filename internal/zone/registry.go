package zone

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Settings holds registry-wide defaults applied to newly created zones.
type Settings struct {
	DefaultPickColor    string  `json:"default_pick_color"`
	DefaultDropColor    string  `json:"default_drop_color"`
	DefaultAlpha        float64 `json:"default_alpha"`
	DefaultBorderWidth  int     `json:"default_border_width"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
}

// DefaultSettings returns the stock creation defaults.
func DefaultSettings() Settings {
	return Settings{
		DefaultPickColor:    defaultPickColor,
		DefaultDropColor:    defaultDropColor,
		DefaultAlpha:        defaultAlpha,
		DefaultBorderWidth:  defaultBorderWidth,
		ConfidenceThreshold: DefaultConfidenceThreshold,
	}
}

// Registry owns the set of configured zones and their persistence.
// All methods are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	zones    map[string]*Zone
	order    []string
	settings Settings
	nextID   map[Type]int
	path     string
}

// NewRegistry creates an empty registry persisting to path. An empty path
// disables persistence.
func NewRegistry(path string) *Registry {
	return &Registry{
		zones:    make(map[string]*Zone),
		settings: DefaultSettings(),
		nextID:   map[Type]int{TypePick: 0, TypeDrop: 0},
		path:     path,
	}
}

// Settings returns the current creation defaults.
func (r *Registry) Settings() Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings
}

// Create allocates a new zone of the given type with a sequential id of the
// form "pick_000" / "drop_001", applies the registry defaults, and stores it.
func (r *Registry) Create(name string, zoneType Type, x, y, width, height float64) (*Zone, error) {
	if !zoneType.Valid() {
		return nil, fmt.Errorf("unknown zone type %q", zoneType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := fmt.Sprintf("%s_%03d", zoneType, r.nextID[zoneType])
	color := r.settings.DefaultPickColor
	if zoneType == TypeDrop {
		color = r.settings.DefaultDropColor
	}
	z := &Zone{
		ID:                  id,
		Name:                name,
		Type:                zoneType,
		X:                   x,
		Y:                   y,
		Width:               width,
		Height:              height,
		Active:              true,
		ConfidenceThreshold: r.settings.ConfidenceThreshold,
		Color:               color,
		Alpha:               r.settings.DefaultAlpha,
		BorderWidth:         r.settings.DefaultBorderWidth,
	}
	if err := z.Validate(); err != nil {
		return nil, err
	}

	r.nextID[zoneType]++
	r.zones[id] = z
	r.order = append(r.order, id)
	return z, nil
}

// Add inserts an externally built zone. It fails on id conflicts and
// validation errors.
func (r *Registry) Add(z *Zone) error {
	if err := z.Validate(); err != nil {
		return err
	}
	if !z.Type.Valid() {
		return fmt.Errorf("unknown zone type %q", z.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.zones[z.ID]; exists {
		return fmt.Errorf("zone %s already exists", z.ID)
	}
	r.zones[z.ID] = z
	r.order = append(r.order, z.ID)
	r.bumpNextID(z)
	return nil
}

// bumpNextID keeps the id counter ahead of any numeric suffix already in use.
// Caller holds the lock.
func (r *Registry) bumpNextID(z *Zone) {
	suffix := strings.TrimPrefix(z.ID, string(z.Type)+"_")
	if n, err := strconv.Atoi(suffix); err == nil && n >= r.nextID[z.Type] {
		r.nextID[z.Type] = n + 1
	}
}

// Get returns the zone with the given id.
func (r *Registry) Get(id string) (*Zone, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	z, ok := r.zones[id]
	return z, ok
}

// Update replaces the stored zone with the same id. It reports false when the
// id is unknown.
func (r *Registry) Update(z *Zone) bool {
	if err := z.Validate(); err != nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.zones[z.ID]; !ok {
		return false
	}
	r.zones[z.ID] = z
	return true
}

// Remove deletes the zone with the given id, reporting whether it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.zones[id]; !ok {
		return false
	}
	delete(r.zones, id)
	for i, zid := range r.order {
		if zid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// All returns the zones in creation order.
func (r *Registry) All() []*Zone {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Zone, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.zones[id])
	}
	return out
}

// ByType returns the zones of the given type in creation order.
func (r *Registry) ByType(t Type) []*Zone {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Zone
	for _, id := range r.order {
		if z := r.zones[id]; z.Type == t {
			out = append(out, z)
		}
	}
	return out
}

// Active returns the zones currently enabled for intersection checks.
func (r *Registry) Active() []*Zone {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Zone
	for _, id := range r.order {
		if z := r.zones[id]; z.Active {
			out = append(out, z)
		}
	}
	return out
}

// Clear removes every zone and resets the id counters.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.zones = make(map[string]*Zone)
	r.order = nil
	r.nextID = map[Type]int{TypePick: 0, TypeDrop: 0}
}

// Count returns the number of stored zones.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.zones)
}

// Stats summarizes the registry for status endpoints.
type Stats struct {
	TotalZones        int        `json:"total_zones"`
	PickZones         int        `json:"pick_zones"`
	DropZones         int        `json:"drop_zones"`
	ActiveZones       int        `json:"active_zones"`
	TotalInteractions int        `json:"total_interactions"`
	LastInteraction   *time.Time `json:"last_interaction,omitempty"`
}

// Stats returns aggregate counters over all zones.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var s Stats
	for _, live := range r.zones {
		z := live.Clone()
		s.TotalZones++
		switch z.Type {
		case TypePick:
			s.PickZones++
		case TypeDrop:
			s.DropZones++
		}
		if z.Active {
			s.ActiveZones++
		}
		s.TotalInteractions += z.InteractionCount
		if z.LastInteraction != nil {
			if s.LastInteraction == nil || z.LastInteraction.After(*s.LastInteraction) {
				s.LastInteraction = z.LastInteraction
			}
		}
	}
	return s
}

// configFile is the on-disk layout of the zone configuration.
type configFile struct {
	Zones    []*Zone  `json:"zones"`
	Settings Settings `json:"settings"`
}

// Save writes the registry to its configuration path atomically.
func (r *Registry) Save() error {
	r.mu.RLock()
	cfg := configFile{Settings: r.settings}
	for _, id := range r.order {
		cfg.Zones = append(cfg.Zones, r.zones[id].Clone())
	}
	path := r.path
	r.mu.RUnlock()

	if path == "" {
		return nil
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal zone config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write zone config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace zone config: %w", err)
	}
	return nil
}

// Load replaces the registry contents from the configuration path. A missing
// file leaves the registry empty; malformed zone records are skipped with a
// log line rather than failing the load.
func (r *Registry) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.zones = make(map[string]*Zone)
	r.order = nil
	r.nextID = map[Type]int{TypePick: 0, TypeDrop: 0}

	if r.path == "" {
		return nil
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read zone config: %w", err)
	}

	var cfg configFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse zone config: %w", err)
	}
	if cfg.Settings != (Settings{}) {
		r.settings = cfg.Settings
	}

	sorted := make([]*Zone, 0, len(cfg.Zones))
	for _, z := range cfg.Zones {
		if z == nil {
			continue
		}
		if !z.Type.Valid() {
			log.Printf("zone config: skipping %s: unknown type %q", z.ID, z.Type)
			continue
		}
		if err := z.Validate(); err != nil {
			log.Printf("zone config: skipping %s: %v", z.ID, err)
			continue
		}
		if _, dup := r.zones[z.ID]; dup {
			log.Printf("zone config: skipping duplicate id %s", z.ID)
			continue
		}
		// Interaction state does not survive restarts.
		z.HandsInside = nil
		r.zones[z.ID] = z
		r.order = append(r.order, z.ID)
		sorted = append(sorted, z)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	for _, z := range sorted {
		r.bumpNextID(z)
	}
	return nil
}
