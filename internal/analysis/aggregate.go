package analysis

import "math"

// Overall score weights. The four sampled dimensions are averaged with fixed
// weights summing to 1.0; professionalism is derived separately and not
// weighted into the overall score.
const (
	WeightPosture  = 0.25
	WeightMovement = 0.20
	WeightAudio    = 0.25
	WeightPresence = 0.30
)

// Aggregation constants.
const (
	// ConsistencyScale converts the standard deviation of per-sample
	// overall scores into a consistency penalty.
	ConsistencyScale = 2.0

	// TrendMinSamples is the minimum window size for a trend call.
	TrendMinSamples = 3

	// TrendDelta is the half-to-half mean difference beyond which the
	// trend is no longer stable.
	TrendDelta = 0.5

	// StrengthThreshold and ImprovementThreshold classify dimensions into
	// strengths and improvement areas.
	StrengthThreshold    = 8.0
	ImprovementThreshold = 5.0
)

// Trend classifies the direction of a session.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// Aggregate is the pure reduction of one question's sample window.
type Aggregate struct {
	PostureScore         float64  `json:"posture_score"`
	MovementScore        float64  `json:"movement_score"`
	AudioScore           float64  `json:"audio_score"`
	PresenceScore        float64  `json:"presence_score"`
	ProfessionalismScore float64  `json:"professionalism_score"`
	OverallScore         float64  `json:"overall_score"`
	ConsistencyScore     float64  `json:"consistency_score"`
	Trend                Trend    `json:"trend"`
	Strengths            []string `json:"strengths"`
	ImprovementAreas     []string `json:"improvement_areas"`
	SampleCount          int      `json:"sample_count"`
}

// Report is the fold of all question windows for a whole interview.
type Report struct {
	Aggregate
	TotalSamples   int     `json:"total_samples"`
	ElapsedMinutes float64 `json:"elapsed_minutes"`
}

// SampleOverall is the fixed weighted mean of one sample's sub-scores.
func SampleOverall(s Sample) float64 {
	overall := s.PostureScore*WeightPosture +
		s.MovementScore*WeightMovement +
		s.AudioScore*WeightAudio +
		s.PresenceScore*WeightPresence
	return clamp(overall, 0, 10)
}

// AggregateWindow reduces one sample window into an Aggregate. An empty
// window yields the neutral default aggregate: zero dimension scores, full
// consistency, a stable trend, and no strengths or improvement areas.
func AggregateWindow(samples []Sample) Aggregate {
	agg := Aggregate{
		Trend:            TrendStable,
		ConsistencyScore: 10,
		Strengths:        []string{},
		ImprovementAreas: []string{},
		SampleCount:      len(samples),
	}
	if len(samples) == 0 {
		return agg
	}

	overalls := make([]float64, len(samples))
	for i, s := range samples {
		agg.PostureScore += s.PostureScore
		agg.MovementScore += s.MovementScore
		agg.AudioScore += s.AudioScore
		agg.PresenceScore += s.PresenceScore
		overalls[i] = SampleOverall(s)
	}

	n := float64(len(samples))
	agg.PostureScore = clamp(agg.PostureScore/n, 0, 10)
	agg.MovementScore = clamp(agg.MovementScore/n, 0, 10)
	agg.AudioScore = clamp(agg.AudioScore/n, 0, 10)
	agg.PresenceScore = clamp(agg.PresenceScore/n, 0, 10)

	agg.ProfessionalismScore = clamp(
		(agg.PostureScore+agg.MovementScore+agg.PresenceScore)/3, 0, 10)

	agg.OverallScore = clamp(mean(overalls), 0, 10)
	agg.ConsistencyScore = clamp(10-math.Sqrt(variance(overalls))*ConsistencyScale, 0, 10)
	agg.Trend = classifyTrend(overalls)

	dims := []struct {
		name  string
		score float64
	}{
		{"posture", agg.PostureScore},
		{"movement", agg.MovementScore},
		{"audio delivery", agg.AudioScore},
		{"presence", agg.PresenceScore},
	}
	for _, d := range dims {
		switch {
		case d.score >= StrengthThreshold:
			agg.Strengths = append(agg.Strengths, d.name)
		case d.score <= ImprovementThreshold:
			agg.ImprovementAreas = append(agg.ImprovementAreas, d.name)
		}
	}

	return agg
}

// AggregateReport folds all question windows into the interview-wide report.
// Elapsed time is measured from the first to the last sample timestamp.
func AggregateReport(windows [][]Sample) Report {
	var all []Sample
	for _, w := range windows {
		all = append(all, w...)
	}

	report := Report{
		Aggregate:    AggregateWindow(all),
		TotalSamples: len(all),
	}

	if len(all) > 1 {
		elapsed := all[len(all)-1].Timestamp.Sub(all[0].Timestamp)
		report.ElapsedMinutes = elapsed.Minutes()
	}

	return report
}

// classifyTrend compares first-half and second-half mean overall scores.
// Windows with fewer than TrendMinSamples samples are always stable.
func classifyTrend(overalls []float64) Trend {
	if len(overalls) < TrendMinSamples {
		return TrendStable
	}

	half := len(overalls) / 2
	first := mean(overalls[:half])
	second := mean(overalls[len(overalls)-half:])

	switch diff := second - first; {
	case diff > TrendDelta:
		return TrendImproving
	case diff < -TrendDelta:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}
