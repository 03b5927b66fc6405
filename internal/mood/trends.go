package mood

import "math"

// Trend direction values reported by AnalyzeTrends.
const (
	TrendImproving    = "improving"
	TrendDeclining    = "declining"
	TrendStable       = "stable"
	TrendInsufficient = "insufficient_data"
)

// trendThreshold is the minimum shift between the first and second half of
// the period that counts as a direction rather than noise.
const trendThreshold = 0.5

// minTrendSamples is the smallest entry count that allows a direction call;
// below it the halves are too small to compare.
const minTrendSamples = 4

// TrendSample is one entry's contribution to the trend analysis, in
// chronological submission order.
type TrendSample struct {
	CoreAvg float64
	Stress  int
}

// Trends summarizes a period of daily entries: averages on the 1..5 scale,
// the distribution of entries over mood bands, and the direction of change
// across the period.
type Trends struct {
	AverageMood   float64        `json:"average_mood"`
	AverageStress float64        `json:"average_stress"`
	Distribution  map[string]int `json:"mood_distribution"`
	Direction     string         `json:"trend_direction"`
	TotalEntries  int            `json:"total_entries"`
}

// moodBand buckets a core average into a named band for the distribution.
func moodBand(coreAvg float64) string {
	switch {
	case coreAvg >= 4:
		return "high"
	case coreAvg >= 3:
		return "steady"
	case coreAvg >= 2:
		return "low"
	default:
		return "very_low"
	}
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// AnalyzeTrends computes period statistics over samples ordered oldest first.
// Direction compares the mean core average of the first half against the
// second half: a rise beyond the threshold is improving, a fall is declining,
// anything in between is stable. Fewer than minTrendSamples entries yield
// insufficient_data. Returns nil when samples is empty.
func AnalyzeTrends(samples []TrendSample) *Trends {
	if len(samples) == 0 {
		return nil
	}

	var moodSum, stressSum float64
	dist := make(map[string]int)
	for _, s := range samples {
		moodSum += s.CoreAvg
		stressSum += float64(s.Stress)
		dist[moodBand(s.CoreAvg)]++
	}
	n := float64(len(samples))

	direction := TrendInsufficient
	if len(samples) >= minTrendSamples {
		mid := len(samples) / 2
		var firstSum, secondSum float64
		for _, s := range samples[:mid] {
			firstSum += s.CoreAvg
		}
		for _, s := range samples[mid:] {
			secondSum += s.CoreAvg
		}
		first := firstSum / float64(mid)
		second := secondSum / float64(len(samples)-mid)
		switch {
		case second > first+trendThreshold:
			direction = TrendImproving
		case second < first-trendThreshold:
			direction = TrendDeclining
		default:
			direction = TrendStable
		}
	}

	return &Trends{
		AverageMood:   round1(moodSum / n),
		AverageStress: round1(stressSum / n),
		Distribution:  dist,
		Direction:     direction,
		TotalEntries:  len(samples),
	}
}
