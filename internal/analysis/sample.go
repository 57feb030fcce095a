// Package analysis turns face observations and audio buffers into behavioral
// scores and reduces sampled sessions into per-question and overall reports.
// Every score in this package lies in [0,10].
package analysis

import (
	"sync"
	"time"

	"github.com/ayusman/abhinaya/internal/detector"
)

// Sample is one timestamped multi-dimensional behavioral observation.
// Samples are immutable once created.
type Sample struct {
	Timestamp          time.Time     `json:"timestamp"`
	PostureScore       float64       `json:"posture_score"`
	MovementScore      float64       `json:"movement_score"`
	AudioScore         float64       `json:"audio_score"`
	PresenceScore      float64       `json:"presence_score"`
	DetectorConfidence float64       `json:"detector_confidence"`
	DetectorKind       detector.Kind `json:"detector_kind"`
}

// Window is the ordered sequence of samples belonging to one question.
// Appends come from the sampler goroutine; aggregation reads an immutable
// snapshot, so the mutex only guards the append path.
type Window struct {
	mu      sync.Mutex
	samples []Sample
}

// NewWindow creates an empty window.
func NewWindow() *Window {
	return &Window{}
}

// Append adds a sample to the window.
func (w *Window) Append(s Sample) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.samples = append(w.samples, s)
}

// Snapshot returns a copy of the window's samples in timestamp order.
func (w *Window) Snapshot() []Sample {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Sample, len(w.samples))
	copy(out, w.samples)
	return out
}

// Len returns the number of samples in the window.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.samples)
}
