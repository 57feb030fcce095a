package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	obs   FaceObservation
	err   error
	kind  Kind
	calls int
}

// NewMockDetector creates a new MockDetector reporting a present, centered,
// well-distanced face.
func NewMockDetector() *MockDetector {
	return &MockDetector{
		kind: KindHeuristic,
		obs: FaceObservation{
			Present:    true,
			Centered:   true,
			DistanceOK: true,
			SizeRatio:  0.2,
			Confidence: HeuristicConfidence,
			Kind:       KindHeuristic,
		},
	}
}

// SetObservation sets the observation that will be returned by Detect.
func (m *MockDetector) SetObservation(obs FaceObservation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obs = obs
	m.kind = obs.Kind
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured observation or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (FaceObservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return FaceObservation{}, m.err
	}
	return m.obs, nil
}

// Kind returns the configured backend kind.
func (m *MockDetector) Kind() Kind {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.kind
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}
