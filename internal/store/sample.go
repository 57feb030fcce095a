package store

import (
	"database/sql"
	"time"
)

// Sample represents one stored behavioral sample row.
type Sample struct {
	ID                 int64
	InterviewID        string
	QuestionIndex      int
	TakenAt            time.Time
	PostureScore       float64
	MovementScore      float64
	AudioScore         float64
	PresenceScore      float64
	DetectorConfidence float64
	DetectorKind       string
}

// SampleRepository provides persistence for behavioral samples.
type SampleRepository struct {
	db *sql.DB
}

// Samples returns the sample repository for this store.
func (s *Store) Samples() *SampleRepository {
	return &SampleRepository{db: s.db}
}

// Insert stores one sample row.
func (r *SampleRepository) Insert(s *Sample) error {
	result, err := r.db.Exec(
		`INSERT INTO samples (interview_id, question_index, taken_at,
			posture_score, movement_score, audio_score, presence_score,
			detector_confidence, detector_kind)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.InterviewID, s.QuestionIndex, s.TakenAt,
		s.PostureScore, s.MovementScore, s.AudioScore, s.PresenceScore,
		s.DetectorConfidence, s.DetectorKind,
	)
	if err != nil {
		return err
	}

	s.ID, err = result.LastInsertId()
	return err
}

// GetByInterview retrieves all samples for an interview in capture order.
func (r *SampleRepository) GetByInterview(interviewID string) ([]*Sample, error) {
	rows, err := r.db.Query(
		`SELECT id, interview_id, question_index, taken_at,
			posture_score, movement_score, audio_score, presence_score,
			detector_confidence, detector_kind
		 FROM samples WHERE interview_id = ?
		 ORDER BY taken_at ASC`,
		interviewID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSamples(rows)
}

// GetByQuestion retrieves the samples of one question window in capture order.
func (r *SampleRepository) GetByQuestion(interviewID string, questionIndex int) ([]*Sample, error) {
	rows, err := r.db.Query(
		`SELECT id, interview_id, question_index, taken_at,
			posture_score, movement_score, audio_score, presence_score,
			detector_confidence, detector_kind
		 FROM samples WHERE interview_id = ? AND question_index = ?
		 ORDER BY taken_at ASC`,
		interviewID, questionIndex,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSamples(rows)
}

func scanSamples(rows *sql.Rows) ([]*Sample, error) {
	var samples []*Sample
	for rows.Next() {
		s := &Sample{}
		if err := rows.Scan(&s.ID, &s.InterviewID, &s.QuestionIndex, &s.TakenAt,
			&s.PostureScore, &s.MovementScore, &s.AudioScore, &s.PresenceScore,
			&s.DetectorConfidence, &s.DetectorKind); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}
