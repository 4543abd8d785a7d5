package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Events table - one row per routed zone interaction event
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL CHECK(type IN ('hand_enter_zone', 'hand_exit_zone', 'pick_gesture_detected', 'drop_gesture_detected')),
			hand_id TEXT NOT NULL,
			zone_id TEXT NOT NULL,
			zone_name TEXT NOT NULL DEFAULT '',
			zone_type TEXT NOT NULL CHECK(zone_type IN ('pick', 'drop')),
			confidence REAL NOT NULL DEFAULT 0,
			gesture TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Outcomes table - one row per completed or failed workflow attempt
		`CREATE TABLE IF NOT EXISTS outcomes (
			id TEXT PRIMARY KEY,
			process_id TEXT NOT NULL,
			process_name TEXT NOT NULL DEFAULT '',
			hand_id TEXT NOT NULL,
			pick_zone_id TEXT NOT NULL DEFAULT '',
			drop_zone_id TEXT NOT NULL DEFAULT '',
			success INTEGER NOT NULL DEFAULT 0,
			message TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for the common audit queries
		`CREATE INDEX IF NOT EXISTS idx_events_zone_id ON events(zone_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_process_id ON outcomes(process_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
