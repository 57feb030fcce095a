package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createInterview(t *testing.T, s *Store, id string) *Interview {
	t.Helper()

	i := &Interview{ID: id, StartedAt: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)}
	if err := s.Interviews().Create(i); err != nil {
		t.Fatalf("failed to create interview: %v", err)
	}
	return i
}

func TestInterviewRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	createInterview(t, s, "iv-1")

	got, err := s.Interviews().GetByID("iv-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ID != "iv-1" {
		t.Errorf("id = %s, want iv-1", got.ID)
	}
	if got.Status != InterviewStatusActive {
		t.Errorf("status = %s, want active", got.Status)
	}
	if got.EndedAt != nil {
		t.Error("new interview should have no end time")
	}
}

func TestInterviewRepository_GetMissing(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Interviews().GetByID("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestInterviewRepository_Lifecycle(t *testing.T) {
	s := newTestStore(t)
	iv := createInterview(t, s, "iv-1")

	if err := s.Interviews().SetQuestionCount(iv.ID, 3); err != nil {
		t.Fatalf("SetQuestionCount failed: %v", err)
	}

	endedAt := iv.StartedAt.Add(10 * time.Minute)
	if err := s.Interviews().End(iv.ID, endedAt); err != nil {
		t.Fatalf("End failed: %v", err)
	}

	got, err := s.Interviews().GetByID(iv.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != InterviewStatusComplete {
		t.Errorf("status = %s, want complete", got.Status)
	}
	if got.QuestionCount != 3 {
		t.Errorf("question count = %d, want 3", got.QuestionCount)
	}
	if got.EndedAt == nil || !got.EndedAt.Equal(endedAt) {
		t.Errorf("ended at = %v, want %v", got.EndedAt, endedAt)
	}
}

func TestInterviewRepository_UpdateMissing(t *testing.T) {
	s := newTestStore(t)

	if err := s.Interviews().SetQuestionCount("nope", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetQuestionCount error = %v, want ErrNotFound", err)
	}
	if err := s.Interviews().End("nope", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Errorf("End error = %v, want ErrNotFound", err)
	}
	if err := s.Interviews().Delete("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete error = %v, want ErrNotFound", err)
	}
}

func TestInterviewRepository_List(t *testing.T) {
	s := newTestStore(t)

	early := &Interview{ID: "iv-early", StartedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	late := &Interview{ID: "iv-late", StartedAt: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)}
	if err := s.Interviews().Create(early); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := s.Interviews().Create(late); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	list, err := s.Interviews().List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list length = %d, want 2", len(list))
	}
	if list[0].ID != "iv-late" {
		t.Errorf("first listed = %s, want iv-late (most recent first)", list[0].ID)
	}
}

func TestSampleRepository_InsertAndQuery(t *testing.T) {
	s := newTestStore(t)
	iv := createInterview(t, s, "iv-1")

	for q := 0; q < 2; q++ {
		for i := 0; i < 3; i++ {
			sample := &Sample{
				InterviewID:        iv.ID,
				QuestionIndex:      q,
				TakenAt:            iv.StartedAt.Add(time.Duration(q*3+i) * 5 * time.Second),
				PostureScore:       8,
				MovementScore:      7,
				AudioScore:         6,
				PresenceScore:      9,
				DetectorConfidence: 0.5,
				DetectorKind:       "heuristic",
			}
			if err := s.Samples().Insert(sample); err != nil {
				t.Fatalf("Insert failed: %v", err)
			}
			if sample.ID == 0 {
				t.Error("Insert should populate the sample ID")
			}
		}
	}

	all, err := s.Samples().GetByInterview(iv.ID)
	if err != nil {
		t.Fatalf("GetByInterview failed: %v", err)
	}
	if len(all) != 6 {
		t.Errorf("sample count = %d, want 6", len(all))
	}

	q1, err := s.Samples().GetByQuestion(iv.ID, 1)
	if err != nil {
		t.Fatalf("GetByQuestion failed: %v", err)
	}
	if len(q1) != 3 {
		t.Errorf("question 1 sample count = %d, want 3", len(q1))
	}
	for _, sample := range q1 {
		if sample.QuestionIndex != 1 {
			t.Errorf("question index = %d, want 1", sample.QuestionIndex)
		}
	}
}

func TestSampleRepository_CascadeDelete(t *testing.T) {
	s := newTestStore(t)
	iv := createInterview(t, s, "iv-1")

	sample := &Sample{InterviewID: iv.ID, TakenAt: time.Now(), DetectorKind: "heuristic"}
	if err := s.Samples().Insert(sample); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := s.Interviews().Delete(iv.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	remaining, err := s.Samples().GetByInterview(iv.ID)
	if err != nil {
		t.Fatalf("GetByInterview failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("samples after cascade delete = %d, want 0", len(remaining))
	}
}

func TestAggregateRepository_UpsertQuestion(t *testing.T) {
	s := newTestStore(t)
	iv := createInterview(t, s, "iv-1")

	agg := &Aggregate{
		InterviewID:      iv.ID,
		QuestionIndex:    0,
		OverallScore:     6.5,
		ConsistencyScore: 9,
		Trend:            "stable",
		Strengths:        []string{"posture"},
		ImprovementAreas: []string{},
		SampleCount:      4,
	}
	if err := s.Aggregates().UpsertQuestion(agg); err != nil {
		t.Fatalf("UpsertQuestion failed: %v", err)
	}

	// A later upsert for the same question replaces, not duplicates
	agg.OverallScore = 7.5
	agg.SampleCount = 8
	if err := s.Aggregates().UpsertQuestion(agg); err != nil {
		t.Fatalf("second UpsertQuestion failed: %v", err)
	}

	got, err := s.Aggregates().GetByInterview(iv.ID)
	if err != nil {
		t.Fatalf("GetByInterview failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("aggregate count = %d, want 1", len(got))
	}
	if got[0].OverallScore != 7.5 || got[0].SampleCount != 8 {
		t.Errorf("aggregate = %+v, want updated values", got[0])
	}
	if len(got[0].Strengths) != 1 || got[0].Strengths[0] != "posture" {
		t.Errorf("strengths = %v, want [posture]", got[0].Strengths)
	}
	if len(got[0].ImprovementAreas) != 0 {
		t.Errorf("improvement areas = %v, want empty", got[0].ImprovementAreas)
	}
}

func TestAggregateRepository_ReportRoundtrip(t *testing.T) {
	s := newTestStore(t)
	iv := createInterview(t, s, "iv-1")

	report := &Report{
		InterviewID:      iv.ID,
		PostureScore:     8.2,
		MovementScore:    7.1,
		AudioScore:       5.4,
		PresenceScore:    6.8,
		OverallScore:     6.9,
		ConsistencyScore: 8.8,
		Trend:            "improving",
		Strengths:        []string{"posture", "movement"},
		ImprovementAreas: []string{"audio delivery"},
		TotalSamples:     120,
		ElapsedMinutes:   10.5,
		Summary:          "Overall performance was good (6.9/10).",
	}
	if err := s.Aggregates().SaveReport(report); err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}

	got, err := s.Aggregates().GetReport(iv.ID)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if got.OverallScore != report.OverallScore || got.TotalSamples != report.TotalSamples {
		t.Errorf("report = %+v, want %+v", got, report)
	}
	if got.Trend != "improving" {
		t.Errorf("trend = %s, want improving", got.Trend)
	}
	if len(got.Strengths) != 2 || got.Strengths[1] != "movement" {
		t.Errorf("strengths = %v, want [posture movement]", got.Strengths)
	}
	if got.Summary != report.Summary {
		t.Errorf("summary = %q, want %q", got.Summary, report.Summary)
	}
}

func TestAggregateRepository_MissingReport(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Aggregates().GetReport("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
