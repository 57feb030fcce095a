package analysis

import "github.com/ayusman/abhinaya/internal/detector"

// Posture scoring constants. The scheme is additive: presence, centering and
// camera distance each earn fixed points, with a bonus when the landmark
// backend reports high confidence.
const (
	PosturePresentPoints  = 3.0
	PostureCenteredPoints = 3.0
	PostureDistancePoints = 2.0
	PostureBonusPoints    = 2.0

	// PostureBonusCutoff is the minimum landmark confidence for the bonus.
	PostureBonusCutoff = 0.8
)

// PostureScore converts a face observation into a posture score in [0,10].
func PostureScore(obs detector.FaceObservation) float64 {
	score := 0.0
	if obs.Present {
		score += PosturePresentPoints
	}
	if obs.Centered {
		score += PostureCenteredPoints
	}
	if obs.DistanceOK {
		score += PostureDistancePoints
	}
	if obs.Kind == detector.KindFaceMesh && obs.Confidence > PostureBonusCutoff {
		score += PostureBonusPoints
	}
	return clamp(score, 0, 10)
}
