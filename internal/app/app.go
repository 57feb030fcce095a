// Package app wires the Abhinaya engine together: the shared capture
// session, detection strategy, sampler, aggregation, persistence, and
// report exporters.
package app

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/abhinaya/internal/analysis"
	"github.com/ayusman/abhinaya/internal/capture"
	"github.com/ayusman/abhinaya/internal/detector"
	"github.com/ayusman/abhinaya/internal/export"
	"github.com/ayusman/abhinaya/internal/sampler"
	"github.com/ayusman/abhinaya/internal/store"
)

// ExportTimeout bounds each exporter run.
const ExportTimeout = 10 * time.Second

// Lifecycle errors.
var (
	ErrInterviewActive   = errors.New("an interview is already active")
	ErrNoActiveInterview = errors.New("no active interview")
	ErrNoSuchQuestion    = errors.New("no such question")
)

// Config holds configuration options for the application.
type Config struct {
	Store       *store.Store
	ExporterDir string
	ReportDir   string
	CameraID    int
	AudioDevice string

	// SamplePeriod overrides the sampling interval; zero means the default.
	SamplePeriod time.Duration

	// Clock overrides the sampler clock, used by tests.
	Clock sampler.Clock

	// Camera and Audio override the real devices, used by tests.
	Camera capture.Camera
	Audio  capture.AudioSource

	// DisableFaceMesh skips the background landmark-backend upgrade.
	DisableFaceMesh bool
}

// App is the main application orchestrating interview analysis sessions.
type App struct {
	config     Config
	manager    *capture.SessionManager
	fallback   detector.Detector
	exportMgr  *export.Manager
	exportExec *export.Executor

	mu            sync.Mutex
	interviewID   string
	questionIndex int
	windows       []*analysis.Window
	movement      *analysis.MovementAnalyzer
	strategy      *detector.Strategy
	smp           *sampler.Sampler
	handle        *capture.Handle
	listeners     []func(analysis.Sample)
	lastOverall   float64
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	camera := config.Camera
	if camera == nil {
		camera = capture.NewCamera(config.CameraID)
	}
	audio := config.Audio
	if audio == nil {
		audio = capture.NewMicSource(config.AudioDevice)
	}

	return &App{
		config:     config,
		manager:    capture.NewSessionManager(camera, audio),
		fallback:   detector.NewHeuristicDetector(detector.DefaultConfig()),
		exportMgr:  export.NewManager(config.ExporterDir),
		exportExec: export.NewExecutor(ExportTimeout),
	}
}

// SetDetector replaces the fallback detector used by future interviews.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fallback = d
}

// OnSample registers a listener invoked for every emitted sample.
func (a *App) OnSample(fn func(analysis.Sample)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// DiscoverExporters scans the exporter directory.
func (a *App) DiscoverExporters() error {
	return a.exportMgr.Discover()
}

// Session returns the shared capture session manager.
func (a *App) Session() *capture.SessionManager {
	return a.manager
}

// StartInterview acquires the capture devices, opens the first question
// window, and begins sampling. Detection starts on the heuristic backend;
// the landmark backend is initialized once in the background and swapped in
// for later ticks if it comes up.
func (a *App) StartInterview() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.interviewID != "" {
		return "", ErrInterviewActive
	}

	handle, err := a.manager.RequestAccess()
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	if a.config.Store != nil {
		if err := a.config.Store.Interviews().Create(&store.Interview{ID: id, QuestionCount: 1}); err != nil {
			handle.Release()
			return "", err
		}
	}

	a.interviewID = id
	a.questionIndex = 0
	a.windows = []*analysis.Window{analysis.NewWindow()}
	a.movement = analysis.NewMovementAnalyzer()
	a.handle = handle
	a.lastOverall = 0

	a.strategy = detector.NewStrategy(a.fallback)
	if !a.config.DisableFaceMesh {
		a.strategy.InitFaceMesh(detector.DefaultConfig())
	}

	a.smp = sampler.New(
		sampler.Config{Period: a.config.SamplePeriod, Clock: a.config.Clock},
		handle, a.strategy, a.movement, a.handleSample,
	)
	a.smp.Start()

	log.Printf("Interview %s started", id)
	return id, nil
}

// handleSample appends the sample to the current question window, persists
// it, and notifies the listener. Called from the sampler goroutine.
func (a *App) handleSample(s analysis.Sample) {
	a.mu.Lock()
	if a.interviewID == "" {
		a.mu.Unlock()
		return
	}
	id := a.interviewID
	question := a.questionIndex
	a.windows[question].Append(s)
	a.lastOverall = analysis.SampleOverall(s)
	listeners := a.listeners
	a.mu.Unlock()

	if a.config.Store != nil {
		row := &store.Sample{
			InterviewID:        id,
			QuestionIndex:      question,
			TakenAt:            s.Timestamp,
			PostureScore:       s.PostureScore,
			MovementScore:      s.MovementScore,
			AudioScore:         s.AudioScore,
			PresenceScore:      s.PresenceScore,
			DetectorConfidence: s.DetectorConfidence,
			DetectorKind:       string(s.DetectorKind),
		}
		if err := a.config.Store.Samples().Insert(row); err != nil {
			log.Printf("Failed to persist sample: %v", err)
		}
	}

	for _, fn := range listeners {
		fn(s)
	}
}

// PauseAnalysis stops sample production, e.g. while a question is read aloud.
func (a *App) PauseAnalysis() {
	a.mu.Lock()
	smp := a.smp
	a.mu.Unlock()
	if smp != nil {
		smp.Pause()
	}
}

// ResumeAnalysis re-enables sample production.
func (a *App) ResumeAnalysis() {
	a.mu.Lock()
	smp := a.smp
	a.mu.Unlock()
	if smp != nil {
		smp.Resume()
	}
}

// NextQuestion closes the current question window, persists its aggregate,
// and opens a fresh window. Returns the new question index.
func (a *App) NextQuestion() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.interviewID == "" {
		return 0, ErrNoActiveInterview
	}

	a.persistAggregateLocked(a.questionIndex)

	a.movement.Reset()
	a.windows = append(a.windows, analysis.NewWindow())
	a.questionIndex++

	if a.config.Store != nil {
		if err := a.config.Store.Interviews().SetQuestionCount(a.interviewID, a.questionIndex+1); err != nil {
			log.Printf("Failed to update question count: %v", err)
		}
	}

	return a.questionIndex, nil
}

// QuestionAggregate reduces one question's window on demand.
func (a *App) QuestionAggregate(questionIndex int) (analysis.Aggregate, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.interviewID == "" {
		return analysis.Aggregate{}, ErrNoActiveInterview
	}
	if questionIndex < 0 || questionIndex >= len(a.windows) {
		return analysis.Aggregate{}, ErrNoSuchQuestion
	}

	return analysis.AggregateWindow(a.windows[questionIndex].Snapshot()), nil
}

// EndInterview stops sampling, folds all question windows into the final
// report, persists it, releases the capture devices, and runs exporters.
func (a *App) EndInterview() (analysis.Report, analysis.Feedback, error) {
	a.mu.Lock()

	if a.interviewID == "" {
		a.mu.Unlock()
		return analysis.Report{}, analysis.Feedback{}, ErrNoActiveInterview
	}

	id := a.interviewID

	a.smp.Stop()
	a.persistAggregateLocked(a.questionIndex)

	windows := make([][]analysis.Sample, len(a.windows))
	for i, w := range a.windows {
		windows[i] = w.Snapshot()
	}
	report := analysis.AggregateReport(windows)
	feedback := analysis.GenerateFeedback(report.Aggregate)

	if a.config.Store != nil {
		row := &store.Report{
			InterviewID:          id,
			PostureScore:         report.PostureScore,
			MovementScore:        report.MovementScore,
			AudioScore:           report.AudioScore,
			PresenceScore:        report.PresenceScore,
			ProfessionalismScore: report.ProfessionalismScore,
			OverallScore:         report.OverallScore,
			ConsistencyScore:     report.ConsistencyScore,
			Trend:                string(report.Trend),
			Strengths:            report.Strengths,
			ImprovementAreas:     report.ImprovementAreas,
			TotalSamples:         report.TotalSamples,
			ElapsedMinutes:       report.ElapsedMinutes,
			Summary:              feedback.Summary,
		}
		if err := a.config.Store.Aggregates().SaveReport(row); err != nil {
			log.Printf("Failed to persist report: %v", err)
		}
		if err := a.config.Store.Interviews().End(id, time.Now()); err != nil {
			log.Printf("Failed to mark interview complete: %v", err)
		}
	}

	a.handle.Release()
	if err := a.strategy.Close(); err != nil {
		log.Printf("Error closing detector: %v", err)
	}

	a.interviewID = ""
	a.windows = nil
	a.smp = nil
	a.handle = nil
	a.strategy = nil
	a.mu.Unlock()

	a.runExporters(id, report, feedback)

	log.Printf("Interview %s ended (%d samples)", id, report.TotalSamples)
	return report, feedback, nil
}

// persistAggregateLocked reduces one question window and stores the result.
// The caller holds a.mu.
func (a *App) persistAggregateLocked(questionIndex int) {
	if a.config.Store == nil {
		return
	}

	agg := analysis.AggregateWindow(a.windows[questionIndex].Snapshot())
	row := &store.Aggregate{
		InterviewID:          a.interviewID,
		QuestionIndex:        questionIndex,
		PostureScore:         agg.PostureScore,
		MovementScore:        agg.MovementScore,
		AudioScore:           agg.AudioScore,
		PresenceScore:        agg.PresenceScore,
		ProfessionalismScore: agg.ProfessionalismScore,
		OverallScore:         agg.OverallScore,
		ConsistencyScore:     agg.ConsistencyScore,
		Trend:                string(agg.Trend),
		Strengths:            agg.Strengths,
		ImprovementAreas:     agg.ImprovementAreas,
		SampleCount:          agg.SampleCount,
	}
	if err := a.config.Store.Aggregates().UpsertQuestion(row); err != nil {
		log.Printf("Failed to persist aggregate: %v", err)
	}
}

// runExporters invokes every discovered exporter with the finished report.
// Exporter failures are logged and never fail the interview.
func (a *App) runExporters(id string, report analysis.Report, feedback analysis.Feedback) {
	exporters := a.exportMgr.List()
	if len(exporters) == 0 {
		return
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		log.Printf("Failed to marshal report for export: %v", err)
		return
	}
	feedbackJSON, err := json.Marshal(feedback)
	if err != nil {
		log.Printf("Failed to marshal feedback for export: %v", err)
		return
	}

	req := &export.Request{
		InterviewID: id,
		Report:      reportJSON,
		Feedback:    feedbackJSON,
		OutputDir:   a.config.ReportDir,
	}

	for _, exporter := range exporters {
		resp, err := a.exportExec.Execute(exporter, req)
		if err != nil {
			log.Printf("Exporter %s failed: %v", exporter.Manifest.Name, err)
			continue
		}
		if !resp.Success {
			log.Printf("Exporter %s reported failure: %s", exporter.Manifest.Name, resp.Error)
			continue
		}
		if resp.Path != "" {
			log.Printf("Exporter %s wrote %s", exporter.Manifest.Name, resp.Path)
		}
	}
}

// IsActive reports whether an interview is in progress.
func (a *App) IsActive() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interviewID != ""
}

// InterviewID returns the active interview's ID, or empty.
func (a *App) InterviewID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interviewID
}

// QuestionIndex returns the current question index.
func (a *App) QuestionIndex() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.questionIndex
}

// LastOverall returns the most recent sample's overall score.
func (a *App) LastOverall() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastOverall
}

// SamplerState returns the sampler state, or idle when no interview runs.
func (a *App) SamplerState() sampler.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.smp == nil {
		return sampler.StateIdle
	}
	return a.smp.State()
}

// Stop tears the application down, ending any active interview.
func (a *App) Stop() {
	if a.IsActive() {
		if _, _, err := a.EndInterview(); err != nil {
			log.Printf("Error ending interview on shutdown: %v", err)
		}
	}
}
