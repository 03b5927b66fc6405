package mood

// slotIDs is the fixed 12-slot ordering of the daily quiz: 4 core scores,
// 5 rotating-domain scores, 3 DASS scores. High/low point ties are broken by
// the first occurrence in this ordering.
var slotIDs = [12]string{
	"q1", "q2", "q3", "q4", // mood, energy, sleep, stress
	"q5", "q6", "q7", "q8", "q9", // rotating 1..5
	"q10", "q11", "q12", // depression, anxiety, stress (dass)
}

// Slot is a question slot paired with its answered score.
type Slot struct {
	Question string `json:"question"`
	Score    int    `json:"score"`
}

// DailyScores holds the derived statistics of one validated quiz.
type DailyScores struct {
	HighPoint   Slot
	LowPoint    Slot
	CoreAvg     float64
	RotatingAvg float64
}

// vector lays the quiz out in the fixed slot ordering.
func (q Quiz) vector() [12]int {
	return [12]int{
		q.Mood, q.Energy, q.Sleep, q.Stress,
		q.Rotating[0], q.Rotating[1], q.Rotating[2], q.Rotating[3], q.Rotating[4],
		q.DassDepression, q.DassAnxiety, q.DassStress,
	}
}

// Score computes the per-entry statistics: argmax/argmin over the 12-slot
// vector with lowest-index tie-break, plus the core and rotating averages.
func Score(q Quiz) DailyScores {
	v := q.vector()

	hi, lo := 0, 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[hi] {
			hi = i
		}
		if v[i] < v[lo] {
			lo = i
		}
	}

	coreSum := q.Mood + q.Energy + q.Sleep + q.Stress
	rotSum := 0
	for _, s := range q.Rotating {
		rotSum += s
	}

	return DailyScores{
		HighPoint:   Slot{Question: slotIDs[hi], Score: v[hi]},
		LowPoint:    Slot{Question: slotIDs[lo], Score: v[lo]},
		CoreAvg:     float64(coreSum) / 4,
		RotatingAvg: float64(rotSum) / 5,
	}
}
