// Package detector provides face detection backends for the Abhinaya
// interview analysis engine. Two implementations sit behind one interface:
// a cheap pixel-statistics heuristic that is always available, and a
// higher-fidelity face-landmark subprocess that may be slow to start or
// unavailable entirely.
package detector

import "gocv.io/x/gocv"

// Kind identifies which backend produced an observation.
type Kind string

const (
	// KindHeuristic is the cheap pixel-statistics backend.
	KindHeuristic Kind = "heuristic"
	// KindFaceMesh is the landmark-based subprocess backend.
	KindFaceMesh Kind = "facemesh"
)

// FaceObservation is the normalized presence/position record produced once
// per sampling tick by the active detector.
type FaceObservation struct {
	Present          bool    `json:"present"`
	Centered         bool    `json:"centered"`
	DistanceOK       bool    `json:"distance_ok"`
	SizeRatio        float64 `json:"size_ratio"`
	HorizontalOffset float64 `json:"horizontal_offset"`
	VerticalOffset   float64 `json:"vertical_offset"`
	Confidence       float64 `json:"confidence"`
	Kind             Kind    `json:"kind"`
}

// Detector defines the interface for face detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns a face observation.
	// A frame with no visible face yields an observation with Present false,
	// not an error.
	Detect(frame *gocv.Mat) (FaceObservation, error)

	// Kind returns the backend kind.
	Kind() Kind

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds tunable detection thresholds shared by both backends.
type Config struct {
	// CenterTolerance is the maximum normalized offset from frame center
	// for the face to count as centered.
	CenterTolerance float64

	// MinFaceRatio and MaxFaceRatio bound the face-to-frame size ratio for
	// a comfortable camera distance.
	MinFaceRatio float64
	MaxFaceRatio float64

	// MinConfidence is the minimum landmark detection confidence for a face
	// to count as present.
	MinConfidence float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		CenterTolerance: 0.18,
		MinFaceRatio:    0.04,
		MaxFaceRatio:    0.45,
		MinConfidence:   0.5,
	}
}
