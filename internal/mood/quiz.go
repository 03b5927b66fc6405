// Package mood implements the daily quiz validation and scoring pipeline and
// the weekly DASS aggregation arithmetic. Everything here is a pure function
// over its inputs; persistence and triggering live in the service layer.
package mood

import (
	"fmt"
	"math"
)

// QuizPayload is the raw, untrusted request shape. Sub-objects are decoded
// loosely (maps and interface slices) so validation can report the exact
// offending field instead of a generic unmarshal error.
type QuizPayload struct {
	CoreScores     map[string]any  `json:"core_scores"`
	RotatingScores *RotatingScores `json:"rotating_scores"`
	DassToday      map[string]any  `json:"dass_today"`
}

// RotatingScores carries the rotating-domain block of the quiz.
type RotatingScores struct {
	DomainName string `json:"domain_name"`
	Scores     []any  `json:"scores"`
}

// Quiz is the validated, strongly typed payload.
type Quiz struct {
	Mood   int
	Energy int
	Sleep  int
	Stress int

	Domain   string
	Rotating [5]int

	DassDepression int
	DassAnxiety    int
	DassStress     int
}

// ValidationError names the sub-object and field that failed validation.
// It is reported to the caller verbatim and never retried.
type ValidationError struct {
	Section string
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Section, e.Reason)
	}
	return fmt.Sprintf("%s.%s: %s", e.Section, e.Field, e.Reason)
}

var coreKeys = []string{"mood", "energy", "sleep", "stress"}
var dassKeys = []string{"depression", "anxiety", "stress"}

// scoreValue coerces a decoded JSON value into an integer in [1,5].
func scoreValue(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	n := int(f)
	if n < 1 || n > 5 {
		return 0, false
	}
	return n, true
}

// ValidateQuiz checks the fixed 12-question payload shape: core_scores with
// exactly the keys mood/energy/sleep/stress, a rotating block with a domain
// name and exactly 5 scores, and dass_today with exactly the keys
// depression/anxiety/stress, every value an integer in [1,5]. The first
// violation is returned as a *ValidationError naming the offending field.
func ValidateQuiz(p QuizPayload) (Quiz, error) {
	var q Quiz

	if p.CoreScores == nil {
		return q, &ValidationError{Section: "core_scores", Reason: "required object is missing"}
	}
	if len(p.CoreScores) != len(coreKeys) {
		return q, &ValidationError{Section: "core_scores", Reason: "must contain exactly the keys mood, energy, sleep, stress"}
	}
	core := make(map[string]int, len(coreKeys))
	for _, k := range coreKeys {
		v, ok := p.CoreScores[k]
		if !ok {
			return q, &ValidationError{Section: "core_scores", Field: k, Reason: "missing"}
		}
		n, ok := scoreValue(v)
		if !ok {
			return q, &ValidationError{Section: "core_scores", Field: k, Reason: "must be an integer between 1 and 5"}
		}
		core[k] = n
	}
	q.Mood, q.Energy, q.Sleep, q.Stress = core["mood"], core["energy"], core["sleep"], core["stress"]

	if p.RotatingScores == nil {
		return q, &ValidationError{Section: "rotating_scores", Reason: "required object is missing"}
	}
	if p.RotatingScores.DomainName == "" {
		return q, &ValidationError{Section: "rotating_scores", Field: "domain_name", Reason: "must be a non-empty string"}
	}
	if len(p.RotatingScores.Scores) != 5 {
		return q, &ValidationError{Section: "rotating_scores", Field: "scores", Reason: "must contain exactly 5 values"}
	}
	q.Domain = p.RotatingScores.DomainName
	for i, v := range p.RotatingScores.Scores {
		n, ok := scoreValue(v)
		if !ok {
			return q, &ValidationError{
				Section: "rotating_scores",
				Field:   fmt.Sprintf("scores[%d]", i),
				Reason:  "must be an integer between 1 and 5",
			}
		}
		q.Rotating[i] = n
	}

	if p.DassToday == nil {
		return q, &ValidationError{Section: "dass_today", Reason: "required object is missing"}
	}
	if len(p.DassToday) != len(dassKeys) {
		return q, &ValidationError{Section: "dass_today", Reason: "must contain exactly the keys depression, anxiety, stress"}
	}
	dass := make(map[string]int, len(dassKeys))
	for _, k := range dassKeys {
		v, ok := p.DassToday[k]
		if !ok {
			return q, &ValidationError{Section: "dass_today", Field: k, Reason: "missing"}
		}
		n, ok := scoreValue(v)
		if !ok {
			return q, &ValidationError{Section: "dass_today", Field: k, Reason: "must be an integer between 1 and 5"}
		}
		dass[k] = n
	}
	q.DassDepression, q.DassAnxiety, q.DassStress = dass["depression"], dass["anxiety"], dass["stress"]

	return q, nil
}
