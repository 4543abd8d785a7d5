package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// OutcomeRecord is one audited workflow attempt: a completed or misrouted
// pick-to-drop cycle.
type OutcomeRecord struct {
	ID          string    `json:"id"`
	ProcessID   string    `json:"process_id"`
	ProcessName string    `json:"process_name"`
	HandID      string    `json:"hand_id"`
	PickZoneID  string    `json:"pick_zone_id"`
	DropZoneID  string    `json:"drop_zone_id"`
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

// OutcomeRepository provides persistence for workflow outcomes.
type OutcomeRepository struct {
	db *sql.DB
}

// Outcomes returns the outcome repository for this store.
func (s *Store) Outcomes() *OutcomeRepository {
	return &OutcomeRepository{db: s.db}
}

// Create inserts an outcome record, assigning an id when absent.
func (r *OutcomeRepository) Create(o *OutcomeRecord) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}

	success := 0
	if o.Success {
		success = 1
	}
	_, err := r.db.Exec(
		`INSERT INTO outcomes (id, process_id, process_name, hand_id, pick_zone_id, drop_zone_id, success, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.ProcessID, o.ProcessName, o.HandID, o.PickZoneID, o.DropZoneID, success, o.Message, o.CreatedAt,
	)
	return err
}

// GetByID retrieves an outcome by its id.
func (r *OutcomeRepository) GetByID(id string) (*OutcomeRecord, error) {
	o := &OutcomeRecord{}
	var success int
	err := r.db.QueryRow(
		`SELECT id, process_id, process_name, hand_id, pick_zone_id, drop_zone_id, success, message, created_at
		 FROM outcomes WHERE id = ?`,
		id,
	).Scan(&o.ID, &o.ProcessID, &o.ProcessName, &o.HandID, &o.PickZoneID, &o.DropZoneID, &success, &o.Message, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	o.Success = success == 1
	return o, nil
}

// Recent returns the newest outcomes, most recent first.
func (r *OutcomeRepository) Recent(limit int) ([]*OutcomeRecord, error) {
	rows, err := r.db.Query(
		`SELECT id, process_id, process_name, hand_id, pick_zone_id, drop_zone_id, success, message, created_at
		 FROM outcomes ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []*OutcomeRecord
	for rows.Next() {
		o := &OutcomeRecord{}
		var success int
		if err := rows.Scan(&o.ID, &o.ProcessID, &o.ProcessName, &o.HandID, &o.PickZoneID,
			&o.DropZoneID, &success, &o.Message, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Success = success == 1
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// Totals returns the completed and error counts for one process.
func (r *OutcomeRepository) Totals(processID string) (completed, failed int, err error) {
	err = r.db.QueryRow(
		`SELECT COALESCE(SUM(success), 0), COALESCE(SUM(1 - success), 0)
		 FROM outcomes WHERE process_id = ?`,
		processID,
	).Scan(&completed, &failed)
	return completed, failed, err
}
