package store

import (
	"database/sql"
	"errors"
	"time"
)

// InterviewStatus represents the lifecycle state of a stored interview.
type InterviewStatus string

const (
	// InterviewStatusActive marks an interview still in progress.
	InterviewStatusActive InterviewStatus = "active"
	// InterviewStatusComplete marks an ended interview.
	InterviewStatusComplete InterviewStatus = "complete"
)

// Interview represents a practice interview stored in the database.
type Interview struct {
	ID            string
	Status        InterviewStatus
	QuestionCount int
	StartedAt     time.Time
	EndedAt       *time.Time
}

// InterviewRepository provides CRUD operations for interviews.
type InterviewRepository struct {
	db *sql.DB
}

// Interviews returns the interview repository for this store.
func (s *Store) Interviews() *InterviewRepository {
	return &InterviewRepository{db: s.db}
}

// Create inserts a new interview.
func (r *InterviewRepository) Create(i *Interview) error {
	if i.StartedAt.IsZero() {
		i.StartedAt = time.Now()
	}
	i.Status = InterviewStatusActive

	_, err := r.db.Exec(
		`INSERT INTO interviews (id, status, question_count, started_at)
		 VALUES (?, ?, ?, ?)`,
		i.ID, string(i.Status), i.QuestionCount, i.StartedAt,
	)
	return err
}

// GetByID retrieves an interview by its ID.
func (r *InterviewRepository) GetByID(id string) (*Interview, error) {
	i := &Interview{}
	var status string
	var endedAt sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, status, question_count, started_at, ended_at
		 FROM interviews WHERE id = ?`,
		id,
	).Scan(&i.ID, &status, &i.QuestionCount, &i.StartedAt, &endedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	i.Status = InterviewStatus(status)
	if endedAt.Valid {
		i.EndedAt = &endedAt.Time
	}
	return i, nil
}

// List retrieves all interviews, most recent first.
func (r *InterviewRepository) List() ([]*Interview, error) {
	rows, err := r.db.Query(
		`SELECT id, status, question_count, started_at, ended_at
		 FROM interviews ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interviews []*Interview
	for rows.Next() {
		i := &Interview{}
		var status string
		var endedAt sql.NullTime
		if err := rows.Scan(&i.ID, &status, &i.QuestionCount, &i.StartedAt, &endedAt); err != nil {
			return nil, err
		}
		i.Status = InterviewStatus(status)
		if endedAt.Valid {
			i.EndedAt = &endedAt.Time
		}
		interviews = append(interviews, i)
	}

	return interviews, rows.Err()
}

// SetQuestionCount updates the number of questions seen so far.
func (r *InterviewRepository) SetQuestionCount(id string, count int) error {
	result, err := r.db.Exec(
		`UPDATE interviews SET question_count = ? WHERE id = ?`,
		count, id,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// End marks an interview complete.
func (r *InterviewRepository) End(id string, endedAt time.Time) error {
	result, err := r.db.Exec(
		`UPDATE interviews SET status = ?, ended_at = ? WHERE id = ?`,
		string(InterviewStatusComplete), endedAt, id,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Delete removes an interview and, via cascade, its samples and aggregates.
func (r *InterviewRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM interviews WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
