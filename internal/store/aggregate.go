package store

import (
	"database/sql"
	"errors"
	"strings"
)

// Aggregate represents a stored per-question reduction.
type Aggregate struct {
	ID                   int64
	InterviewID          string
	QuestionIndex        int
	PostureScore         float64
	MovementScore        float64
	AudioScore           float64
	PresenceScore        float64
	ProfessionalismScore float64
	OverallScore         float64
	ConsistencyScore     float64
	Trend                string
	Strengths            []string
	ImprovementAreas     []string
	SampleCount          int
}

// Report represents the stored interview-wide reduction.
type Report struct {
	InterviewID          string
	PostureScore         float64
	MovementScore        float64
	AudioScore           float64
	PresenceScore        float64
	ProfessionalismScore float64
	OverallScore         float64
	ConsistencyScore     float64
	Trend                string
	Strengths            []string
	ImprovementAreas     []string
	TotalSamples         int
	ElapsedMinutes       float64
	Summary              string
}

// AggregateRepository provides persistence for aggregates and reports.
type AggregateRepository struct {
	db *sql.DB
}

// Aggregates returns the aggregate repository for this store.
func (s *Store) Aggregates() *AggregateRepository {
	return &AggregateRepository{db: s.db}
}

// UpsertQuestion stores or replaces the reduction of one question window.
func (r *AggregateRepository) UpsertQuestion(a *Aggregate) error {
	_, err := r.db.Exec(
		`INSERT INTO aggregates (interview_id, question_index,
			posture_score, movement_score, audio_score, presence_score,
			professionalism_score, overall_score, consistency_score,
			trend, strengths, improvement_areas, sample_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(interview_id, question_index) DO UPDATE SET
			posture_score = excluded.posture_score,
			movement_score = excluded.movement_score,
			audio_score = excluded.audio_score,
			presence_score = excluded.presence_score,
			professionalism_score = excluded.professionalism_score,
			overall_score = excluded.overall_score,
			consistency_score = excluded.consistency_score,
			trend = excluded.trend,
			strengths = excluded.strengths,
			improvement_areas = excluded.improvement_areas,
			sample_count = excluded.sample_count`,
		a.InterviewID, a.QuestionIndex,
		a.PostureScore, a.MovementScore, a.AudioScore, a.PresenceScore,
		a.ProfessionalismScore, a.OverallScore, a.ConsistencyScore,
		a.Trend, joinList(a.Strengths), joinList(a.ImprovementAreas), a.SampleCount,
	)
	return err
}

// GetByInterview retrieves all per-question aggregates for an interview.
func (r *AggregateRepository) GetByInterview(interviewID string) ([]*Aggregate, error) {
	rows, err := r.db.Query(
		`SELECT id, interview_id, question_index,
			posture_score, movement_score, audio_score, presence_score,
			professionalism_score, overall_score, consistency_score,
			trend, strengths, improvement_areas, sample_count
		 FROM aggregates WHERE interview_id = ?
		 ORDER BY question_index ASC`,
		interviewID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aggregates []*Aggregate
	for rows.Next() {
		a := &Aggregate{}
		var strengths, improvements string
		if err := rows.Scan(&a.ID, &a.InterviewID, &a.QuestionIndex,
			&a.PostureScore, &a.MovementScore, &a.AudioScore, &a.PresenceScore,
			&a.ProfessionalismScore, &a.OverallScore, &a.ConsistencyScore,
			&a.Trend, &strengths, &improvements, &a.SampleCount); err != nil {
			return nil, err
		}
		a.Strengths = splitList(strengths)
		a.ImprovementAreas = splitList(improvements)
		aggregates = append(aggregates, a)
	}

	return aggregates, rows.Err()
}

// SaveReport stores or replaces the interview-wide report.
func (r *AggregateRepository) SaveReport(report *Report) error {
	_, err := r.db.Exec(
		`INSERT OR REPLACE INTO reports (interview_id,
			posture_score, movement_score, audio_score, presence_score,
			professionalism_score, overall_score, consistency_score,
			trend, strengths, improvement_areas,
			total_samples, elapsed_minutes, summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.InterviewID,
		report.PostureScore, report.MovementScore, report.AudioScore, report.PresenceScore,
		report.ProfessionalismScore, report.OverallScore, report.ConsistencyScore,
		report.Trend, joinList(report.Strengths), joinList(report.ImprovementAreas),
		report.TotalSamples, report.ElapsedMinutes, report.Summary,
	)
	return err
}

// GetReport retrieves the stored report for an interview.
func (r *AggregateRepository) GetReport(interviewID string) (*Report, error) {
	report := &Report{}
	var strengths, improvements string

	err := r.db.QueryRow(
		`SELECT interview_id,
			posture_score, movement_score, audio_score, presence_score,
			professionalism_score, overall_score, consistency_score,
			trend, strengths, improvement_areas,
			total_samples, elapsed_minutes, summary
		 FROM reports WHERE interview_id = ?`,
		interviewID,
	).Scan(&report.InterviewID,
		&report.PostureScore, &report.MovementScore, &report.AudioScore, &report.PresenceScore,
		&report.ProfessionalismScore, &report.OverallScore, &report.ConsistencyScore,
		&report.Trend, &strengths, &improvements,
		&report.TotalSamples, &report.ElapsedMinutes, &report.Summary)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	report.Strengths = splitList(strengths)
	report.ImprovementAreas = splitList(improvements)
	return report, nil
}

func joinList(items []string) string {
	return strings.Join(items, ",")
}

func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
