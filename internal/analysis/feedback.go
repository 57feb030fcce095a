package analysis

import (
	"fmt"
	"strings"
)

// Qualitative bucket thresholds.
const (
	BucketExcellent = 8.0
	BucketGood      = 6.0
	BucketAdequate  = 4.0
)

// Feedback is the qualitative rendering of an aggregate, consumed by the
// reporting collaborator.
type Feedback struct {
	Posture  string `json:"posture"`
	Movement string `json:"movement"`
	Audio    string `json:"audio"`
	Presence string `json:"presence"`
	Overall  string `json:"overall"`
	Summary  string `json:"summary"`
}

// Qualify maps a score onto one of four fixed qualitative buckets.
func Qualify(score float64) string {
	switch {
	case score >= BucketExcellent:
		return "excellent"
	case score >= BucketGood:
		return "good"
	case score >= BucketAdequate:
		return "adequate"
	default:
		return "needs improvement"
	}
}

// GenerateFeedback renders an aggregate as qualitative text. It is a pure
// mapping; all numbers come from the aggregate itself.
func GenerateFeedback(agg Aggregate) Feedback {
	fb := Feedback{
		Posture:  dimensionFeedback("Posture", agg.PostureScore),
		Movement: dimensionFeedback("Movement", agg.MovementScore),
		Audio:    dimensionFeedback("Audio delivery", agg.AudioScore),
		Presence: dimensionFeedback("Camera presence", agg.PresenceScore),
		Overall:  dimensionFeedback("Overall", agg.OverallScore),
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("Overall performance was %s (%.1f/10) with %s consistency (%.1f/10).",
		Qualify(agg.OverallScore), agg.OverallScore,
		Qualify(agg.ConsistencyScore), agg.ConsistencyScore))

	switch agg.Trend {
	case TrendImproving:
		parts = append(parts, "Performance improved as the session went on.")
	case TrendDeclining:
		parts = append(parts, "Performance declined as the session went on.")
	}

	if len(agg.Strengths) > 0 {
		parts = append(parts, "Strengths: "+strings.Join(agg.Strengths, ", ")+".")
	}
	if len(agg.ImprovementAreas) > 0 {
		parts = append(parts, "Areas to work on: "+strings.Join(agg.ImprovementAreas, ", ")+".")
	}

	fb.Summary = strings.Join(parts, " ")
	return fb
}

func dimensionFeedback(name string, score float64) string {
	return fmt.Sprintf("%s was %s (%.1f/10)", name, Qualify(score), score)
}
