package sampler

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/abhinaya/internal/analysis"
	"github.com/ayusman/abhinaya/internal/capture"
	"github.com/ayusman/abhinaya/internal/detector"
)

// DefaultPeriod is the sampling interval when none is configured.
const DefaultPeriod = 5 * time.Second

// State represents the sampler lifecycle.
type State string

const (
	StateIdle     State = "idle"
	StateSampling State = "sampling"
	StatePaused   State = "paused"
)

// FrameDetector is the slice of the detection strategy the sampler needs.
type FrameDetector interface {
	Detect(frame *gocv.Mat) (detector.FaceObservation, error)
	Kind() detector.Kind
}

// Config holds sampler configuration.
type Config struct {
	// Period is the fixed sampling interval. Defaults to DefaultPeriod.
	Period time.Duration

	// Clock supplies time; defaults to the real clock.
	Clock Clock
}

// Sampler pulls one frame and one audio buffer per period from the capture
// handle, runs detection and analysis, and emits a Sample per successful
// tick. A tick that would overlap a still-running analysis is dropped rather
// than queued; pausing skips ticks without stopping the underlying timer, so
// resuming continues on the next period boundary with no catch-up.
type Sampler struct {
	period   time.Duration
	clock    Clock
	handle   *capture.Handle
	det      FrameDetector
	movement *analysis.MovementAnalyzer
	onSample func(analysis.Sample)

	mu       sync.Mutex
	state    State
	stopCh   chan struct{}
	inFlight atomic.Bool
}

// New creates a Sampler. onSample is invoked once per successful tick from
// the processing goroutine.
func New(config Config, handle *capture.Handle, det FrameDetector, movement *analysis.MovementAnalyzer, onSample func(analysis.Sample)) *Sampler {
	period := config.Period
	if period <= 0 {
		period = DefaultPeriod
	}
	clock := config.Clock
	if clock == nil {
		clock = NewRealClock()
	}

	return &Sampler{
		period:   period,
		clock:    clock,
		handle:   handle,
		det:      det,
		movement: movement,
		onSample: onSample,
		state:    StateIdle,
	}
}

// Start begins ticking. Starting an already-running sampler is a no-op.
func (s *Sampler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopCh != nil {
		return
	}

	s.stopCh = make(chan struct{})
	s.state = StateSampling
	go s.run(s.stopCh)
}

// Pause stops sample production immediately. The timer keeps running so that
// Resume falls on a period boundary; ticks during the pause never existed.
func (s *Sampler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSampling {
		s.state = StatePaused
	}
}

// Resume re-enables sample production from the next period boundary.
func (s *Sampler) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StatePaused {
		s.state = StateSampling
	}
}

// Stop cancels the timer. Calling Stop on a stopped sampler is a no-op.
func (s *Sampler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopCh == nil {
		return
	}

	close(s.stopCh)
	s.stopCh = nil
	s.state = StateIdle
}

// State returns the current sampler state.
func (s *Sampler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Sampler) run(stopCh chan struct{}) {
	ticker := s.clock.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case ts := <-ticker.C():
			if s.State() != StateSampling {
				continue
			}

			// In-flight guard: a tick that would overlap a running
			// analysis is dropped, not queued.
			if !s.inFlight.CompareAndSwap(false, true) {
				continue
			}

			go func(ts time.Time) {
				defer s.inFlight.Store(false)
				s.processTick(ts)
			}(ts)
		}
	}
}

// processTick runs one full sample: frame pull, detection, analysis, emit.
// Any failure drops this tick only; the timer is unaffected.
func (s *Sampler) processTick(ts time.Time) {
	frame, err := s.handle.PullFrame()
	if err != nil {
		log.Printf("Skipping tick, frame unavailable: %v", err)
		return
	}
	defer frame.Close()

	obs, err := s.det.Detect(frame)
	if err != nil {
		log.Printf("Skipping tick, detection failed: %v", err)
		return
	}

	chunk, err := s.handle.PullAudio()
	if err != nil {
		log.Printf("Skipping tick, audio unavailable: %v", err)
		return
	}

	movement := s.movement.Observe(obs)
	audio := analysis.AnalyzeAudio(chunk)

	sample := analysis.Sample{
		Timestamp:          ts,
		PostureScore:       analysis.PostureScore(obs),
		MovementScore:      movement.Stability,
		AudioScore:         audio.Score,
		PresenceScore:      analysis.PresenceScore(obs),
		DetectorConfidence: obs.Confidence,
		DetectorKind:       obs.Kind,
	}

	if s.onSample != nil {
		s.onSample(sample)
	}
}
