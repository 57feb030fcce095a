package detector

import (
	"log"
	"sync"

	"gocv.io/x/gocv"
)

// Strategy holds the currently active detector and manages the one-time
// background upgrade from the heuristic to the face-landmark backend.
// The swap is atomic with respect to Detect: a tick sees either the old or
// the new backend, never a mix, and prior observations are never reprocessed.
type Strategy struct {
	mu       sync.RWMutex
	active   Detector
	initOnce sync.Once
}

// NewStrategy creates a Strategy starting on the given fallback detector,
// normally the heuristic.
func NewStrategy(fallback Detector) *Strategy {
	return &Strategy{active: fallback}
}

// InitFaceMesh attempts to start the face-landmark backend in the background.
// Ticks keep flowing through the current backend until the swap. The attempt
// happens at most once per Strategy; on failure the heuristic stays active
// for the remainder of the session.
func (s *Strategy) InitFaceMesh(config Config) {
	s.initOnce.Do(func() {
		go func() {
			fm, err := NewFaceMeshDetector(config)
			if err != nil {
				log.Printf("Face-landmark backend unavailable (%v), staying on heuristic", err)
				return
			}
			if err := fm.Init(); err != nil {
				log.Printf("Face-landmark backend failed to start (%v), staying on heuristic", err)
				return
			}
			s.Swap(fm)
			log.Println("Switched to face-landmark detection")
		}()
	})
}

// Detect delegates to the active backend.
func (s *Strategy) Detect(frame *gocv.Mat) (FaceObservation, error) {
	s.mu.RLock()
	active := s.active
	s.mu.RUnlock()
	return active.Detect(frame)
}

// Kind returns the active backend kind.
func (s *Strategy) Kind() Kind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Kind()
}

// Swap replaces the active backend. Only subsequent ticks are affected.
func (s *Strategy) Swap(d Detector) {
	s.mu.Lock()
	old := s.active
	s.active = d
	s.mu.Unlock()

	if old != nil && old != d {
		if err := old.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}
}

// Close releases the active backend.
func (s *Strategy) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	return s.active.Close()
}
