package detector

import (
	"testing"
)

func TestStrategy_StartsOnFallback(t *testing.T) {
	mock := NewMockDetector()
	s := NewStrategy(mock)
	defer s.Close()

	if s.Kind() != KindHeuristic {
		t.Errorf("kind = %s, want heuristic", s.Kind())
	}

	obs, err := s.Detect(nil)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if !obs.Present {
		t.Error("expected the mock's default observation")
	}
	if mock.Calls() != 1 {
		t.Errorf("fallback calls = %d, want 1", mock.Calls())
	}
}

func TestStrategy_SwapRedirectsSubsequentTicks(t *testing.T) {
	fallback := NewMockDetector()
	s := NewStrategy(fallback)
	defer s.Close()

	upgraded := NewMockDetector()
	upgraded.SetObservation(FaceObservation{
		Present:    true,
		Confidence: 0.95,
		Kind:       KindFaceMesh,
	})

	s.Swap(upgraded)

	if s.Kind() != KindFaceMesh {
		t.Errorf("kind after swap = %s, want facemesh", s.Kind())
	}

	obs, err := s.Detect(nil)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if obs.Kind != KindFaceMesh || obs.Confidence != 0.95 {
		t.Errorf("observation = %+v, want facemesh result", obs)
	}

	if fallback.Calls() != 0 {
		t.Errorf("fallback received %d calls after swap, want 0", fallback.Calls())
	}
	if upgraded.Calls() != 1 {
		t.Errorf("upgraded detector calls = %d, want 1", upgraded.Calls())
	}
}

func TestStrategy_InitFaceMeshFailureKeepsFallback(t *testing.T) {
	fallback := NewMockDetector()
	s := NewStrategy(fallback)
	defer s.Close()

	// With no service script installed the background init fails and the
	// fallback stays active.
	s.InitFaceMesh(Config{})
	s.InitFaceMesh(Config{})

	if _, err := s.Detect(nil); err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if s.Kind() != KindHeuristic {
		t.Errorf("kind = %s, want heuristic while upgrade is unavailable", s.Kind())
	}
}
