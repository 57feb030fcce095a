package sampler

import (
	"sync"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/abhinaya/internal/analysis"
	"github.com/ayusman/abhinaya/internal/capture"
	"github.com/ayusman/abhinaya/internal/detector"
)

// fakeClock drives the sampler with hand-delivered ticks.
type fakeClock struct {
	ch  chan time.Time
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		ch:  make(chan time.Time),
		now: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
	}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	return &fakeTicker{ch: c.ch}
}

// tick advances the clock by one period and blocks until the sampler loop
// has consumed the tick.
func (c *fakeClock) tick() time.Time {
	c.now = c.now.Add(5 * time.Second)
	c.ch <- c.now
	return c.now
}

type fakeTicker struct {
	ch chan time.Time
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }
func (t *fakeTicker) Stop()               {}

// gatedDetector blocks Detect until released, to simulate slow analysis.
type gatedDetector struct {
	gate chan struct{}
	mu   sync.Mutex
	obs  detector.FaceObservation
}

func (d *gatedDetector) Detect(frame *gocv.Mat) (detector.FaceObservation, error) {
	if d.gate != nil {
		<-d.gate
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.obs, nil
}

func (d *gatedDetector) Kind() detector.Kind {
	return detector.KindHeuristic
}

// newTestHandle opens a capture session over mock devices.
func newTestHandle(t *testing.T) *capture.Handle {
	t.Helper()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { frame.Close() })

	camera := capture.NewMockCamera([]*gocv.Mat{&frame}, true)
	audio := capture.NewMockAudioSource()
	audio.SetTone(440, 0.3)

	manager := capture.NewSessionManager(camera, audio)
	handle, err := manager.RequestAccess()
	if err != nil {
		t.Fatalf("RequestAccess failed: %v", err)
	}
	t.Cleanup(handle.Release)
	return handle
}

func newTestSampler(t *testing.T, clock *fakeClock, det FrameDetector) (*Sampler, chan analysis.Sample) {
	t.Helper()

	samples := make(chan analysis.Sample, 64)
	s := New(Config{Clock: clock}, newTestHandle(t), det,
		analysis.NewMovementAnalyzer(), func(sample analysis.Sample) {
			samples <- sample
		})
	t.Cleanup(s.Stop)
	return s, samples
}

func waitSample(t *testing.T, samples chan analysis.Sample) analysis.Sample {
	t.Helper()
	select {
	case s := <-samples:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for sample")
		return analysis.Sample{}
	}
}

func TestSampler_EmitsOneSamplePerTick(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	clock := newFakeClock()
	s, samples := newTestSampler(t, clock, &gatedDetector{
		obs: detector.FaceObservation{Present: true, Centered: true, DistanceOK: true},
	})
	s.Start()

	for i := 0; i < 4; i++ {
		want := clock.tick()
		got := waitSample(t, samples)
		if !got.Timestamp.Equal(want) {
			t.Errorf("sample %d timestamp = %v, want %v", i, got.Timestamp, want)
		}
		if got.PostureScore != 8 {
			t.Errorf("sample %d posture = %f, want 8", i, got.PostureScore)
		}
	}
}

func TestSampler_StartTwiceIsNoop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	clock := newFakeClock()
	s, samples := newTestSampler(t, clock, &gatedDetector{})
	s.Start()
	s.Start()

	clock.tick()
	waitSample(t, samples)

	// A second run loop would have produced a second sample
	time.Sleep(50 * time.Millisecond)
	if len(samples) != 0 {
		t.Errorf("got %d extra samples after duplicate Start", len(samples))
	}
}

func TestSampler_PauseSkipsTicksWithoutStoppingTimer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	clock := newFakeClock()
	s, samples := newTestSampler(t, clock, &gatedDetector{})
	s.Start()

	s.Pause()
	if s.State() != StatePaused {
		t.Fatalf("state = %s, want paused", s.State())
	}

	clock.tick()
	clock.tick()
	clock.tick()

	s.Resume()
	want := clock.tick()
	got := waitSample(t, samples)
	if !got.Timestamp.Equal(want) {
		t.Errorf("first sample after resume at %v, want %v", got.Timestamp, want)
	}

	time.Sleep(50 * time.Millisecond)
	if len(samples) != 0 {
		t.Errorf("got %d samples from paused ticks, want 0", len(samples))
	}
}

func TestSampler_OverlappingTickIsDropped(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	clock := newFakeClock()
	det := &gatedDetector{gate: make(chan struct{})}
	s, samples := newTestSampler(t, clock, det)
	s.Start()

	first := clock.tick()
	// Give the processing goroutine time to reach the blocked detector
	time.Sleep(20 * time.Millisecond)

	// These ticks arrive while the first is still in flight
	clock.tick()
	clock.tick()

	close(det.gate)

	got := waitSample(t, samples)
	if !got.Timestamp.Equal(first) {
		t.Errorf("sample timestamp = %v, want first tick %v", got.Timestamp, first)
	}

	time.Sleep(50 * time.Millisecond)
	if len(samples) != 0 {
		t.Errorf("got %d samples for overlapped ticks, want 0", len(samples))
	}
}

func TestSampler_StopIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	clock := newFakeClock()
	s, _ := newTestSampler(t, clock, &gatedDetector{})
	s.Start()
	s.Stop()
	s.Stop()

	if s.State() != StateIdle {
		t.Errorf("state = %s, want idle", s.State())
	}
}

func TestSampler_PauseBeforeStartIsNoop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	clock := newFakeClock()
	s, _ := newTestSampler(t, clock, &gatedDetector{})

	s.Pause()
	if s.State() != StateIdle {
		t.Errorf("state = %s, want idle", s.State())
	}
	s.Resume()
	if s.State() != StateIdle {
		t.Errorf("state = %s, want idle", s.State())
	}
}
