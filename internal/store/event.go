package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// EventRecord is one audited zone interaction event.
type EventRecord struct {
	ID         string        `json:"id"`
	Type       string        `json:"type"`
	HandID     string        `json:"hand_id"`
	ZoneID     string        `json:"zone_id"`
	ZoneName   string        `json:"zone_name"`
	ZoneType   string        `json:"zone_type"`
	Confidence float64       `json:"confidence"`
	Gesture    string        `json:"gesture,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// EventRepository provides persistence for zone interaction events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts an event record, assigning an id when absent.
func (r *EventRepository) Create(e *EventRecord) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO events (id, type, hand_id, zone_id, zone_name, zone_type, confidence, gesture, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Type, e.HandID, e.ZoneID, e.ZoneName, e.ZoneType,
		e.Confidence, e.Gesture, e.Duration.Milliseconds(), e.CreatedAt,
	)
	return err
}

// Recent returns the newest events, most recent first.
func (r *EventRepository) Recent(limit int) ([]*EventRecord, error) {
	rows, err := r.db.Query(
		`SELECT id, type, hand_id, zone_id, zone_name, zone_type, confidence, gesture, duration_ms, created_at
		 FROM events ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*EventRecord
	for rows.Next() {
		e := &EventRecord{}
		var durationMS int64
		if err := rows.Scan(&e.ID, &e.Type, &e.HandID, &e.ZoneID, &e.ZoneName, &e.ZoneType,
			&e.Confidence, &e.Gesture, &durationMS, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountByType returns event counts grouped by event type.
func (r *EventRepository) CountByType() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT type, COUNT(*) FROM events GROUP BY type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var eventType string
		var count int
		if err := rows.Scan(&eventType, &count); err != nil {
			return nil, err
		}
		counts[eventType] = count
	}
	return counts, rows.Err()
}

// ForZone returns the newest events for one zone, most recent first.
func (r *EventRepository) ForZone(zoneID string, limit int) ([]*EventRecord, error) {
	rows, err := r.db.Query(
		`SELECT id, type, hand_id, zone_id, zone_name, zone_type, confidence, gesture, duration_ms, created_at
		 FROM events WHERE zone_id = ? ORDER BY created_at DESC, id LIMIT ?`,
		zoneID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*EventRecord
	for rows.Next() {
		e := &EventRecord{}
		var durationMS int64
		if err := rows.Scan(&e.ID, &e.Type, &e.HandID, &e.ZoneID, &e.ZoneName, &e.ZoneType,
			&e.Confidence, &e.Gesture, &durationMS, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		events = append(events, e)
	}
	return events, rows.Err()
}

// DeleteOlderThan prunes events created before the cutoff, returning the
// number removed.
func (r *EventRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
