package analysis

import "github.com/ayusman/abhinaya/internal/detector"

// Presence scoring constants. Presence is a bounded sum like posture but with
// a lower confidence cutoff: the dimension rewards being reliably on camera
// rather than sitting perfectly.
const (
	PresenceVisiblePoints  = 3.0
	PresenceCenteredPoints = 3.0
	PresenceDistancePoints = 2.0
	PresenceBonusPoints    = 2.0

	// PresenceBonusCutoff is the minimum detector confidence for the bonus.
	PresenceBonusCutoff = 0.7
)

// PresenceScore converts a face observation into a presence score in [0,10].
func PresenceScore(obs detector.FaceObservation) float64 {
	score := 0.0
	if obs.Present {
		score += PresenceVisiblePoints
	}
	if obs.Centered {
		score += PresenceCenteredPoints
	}
	if obs.DistanceOK {
		score += PresenceDistancePoints
	}
	if obs.Confidence > PresenceBonusCutoff {
		score += PresenceBonusPoints
	}
	return clamp(score, 0, 10)
}
