package analysis

import (
	"math"
	"sync"

	"github.com/ayusman/abhinaya/internal/detector"
)

// Movement analysis constants.
const (
	// MovementWindowSize is the number of recent positions kept per question.
	MovementWindowSize = 10

	// FidgetScale converts mean positional displacement (in normalized
	// frame-offset units) into a 0-10 fidgeting level.
	FidgetScale = 40.0
)

// MovementMetrics describes how steady the subject held their position.
type MovementMetrics struct {
	Stability      float64 `json:"stability"`
	FidgetingLevel float64 `json:"fidgeting_level"`
}

type position struct {
	x, y float64
}

// MovementAnalyzer tracks face positions over a bounded window and scores
// positional stability. Reset clears the window when the question changes.
type MovementAnalyzer struct {
	mu        sync.Mutex
	positions []position
}

// NewMovementAnalyzer creates an analyzer with an empty position window.
func NewMovementAnalyzer() *MovementAnalyzer {
	return &MovementAnalyzer{
		positions: make([]position, 0, MovementWindowSize),
	}
}

// Observe records the observation's position (when a face is visible) and
// returns the current movement metrics. With fewer than two recorded points
// the metrics are the neutral defaults: full stability, no fidgeting.
func (a *MovementAnalyzer) Observe(obs detector.FaceObservation) MovementMetrics {
	a.mu.Lock()
	defer a.mu.Unlock()

	if obs.Present {
		if len(a.positions) >= MovementWindowSize {
			// Shift window left by 1, removing the oldest position
			copy(a.positions, a.positions[1:])
			a.positions = a.positions[:MovementWindowSize-1]
		}
		a.positions = append(a.positions, position{
			x: obs.HorizontalOffset,
			y: obs.VerticalOffset,
		})
	}

	if len(a.positions) < 2 {
		return MovementMetrics{Stability: 10, FidgetingLevel: 0}
	}

	total := 0.0
	for i := 1; i < len(a.positions); i++ {
		dx := a.positions[i].x - a.positions[i-1].x
		dy := a.positions[i].y - a.positions[i-1].y
		total += math.Sqrt(dx*dx + dy*dy)
	}
	displacement := total / float64(len(a.positions)-1)

	fidgeting := clamp(displacement*FidgetScale, 0, 10)
	return MovementMetrics{
		Stability:      clamp(10-fidgeting, 0, 10),
		FidgetingLevel: fidgeting,
	}
}

// Reset clears the position window, e.g. on a question change.
func (a *MovementAnalyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.positions = a.positions[:0]
}
