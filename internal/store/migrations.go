package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Interviews table - one row per practice interview
		`CREATE TABLE IF NOT EXISTS interviews (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL CHECK(status IN ('active', 'complete')),
			question_count INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME
		)`,

		// Samples table - one row per behavioral sample
		`CREATE TABLE IF NOT EXISTS samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			interview_id TEXT NOT NULL REFERENCES interviews(id) ON DELETE CASCADE,
			question_index INTEGER NOT NULL,
			taken_at DATETIME NOT NULL,
			posture_score REAL NOT NULL,
			movement_score REAL NOT NULL,
			audio_score REAL NOT NULL,
			presence_score REAL NOT NULL,
			detector_confidence REAL NOT NULL,
			detector_kind TEXT NOT NULL
		)`,

		// Aggregates table - per-question reductions
		`CREATE TABLE IF NOT EXISTS aggregates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			interview_id TEXT NOT NULL REFERENCES interviews(id) ON DELETE CASCADE,
			question_index INTEGER NOT NULL,
			posture_score REAL NOT NULL,
			movement_score REAL NOT NULL,
			audio_score REAL NOT NULL,
			presence_score REAL NOT NULL,
			professionalism_score REAL NOT NULL,
			overall_score REAL NOT NULL,
			consistency_score REAL NOT NULL,
			trend TEXT NOT NULL,
			strengths TEXT NOT NULL DEFAULT '',
			improvement_areas TEXT NOT NULL DEFAULT '',
			sample_count INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(interview_id, question_index)
		)`,

		// Reports table - one interview-wide reduction per interview
		`CREATE TABLE IF NOT EXISTS reports (
			interview_id TEXT PRIMARY KEY REFERENCES interviews(id) ON DELETE CASCADE,
			posture_score REAL NOT NULL,
			movement_score REAL NOT NULL,
			audio_score REAL NOT NULL,
			presence_score REAL NOT NULL,
			professionalism_score REAL NOT NULL,
			overall_score REAL NOT NULL,
			consistency_score REAL NOT NULL,
			trend TEXT NOT NULL,
			strengths TEXT NOT NULL DEFAULT '',
			improvement_areas TEXT NOT NULL DEFAULT '',
			total_samples INTEGER NOT NULL,
			elapsed_minutes REAL NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_samples_interview_id ON samples(interview_id)`,
		`CREATE INDEX IF NOT EXISTS idx_aggregates_interview_id ON aggregates(interview_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
