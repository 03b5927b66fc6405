package safety

import (
	"regexp"
	"strings"
)

// Intent is the classification of a short freeform reply to the
// "do you want resources now?" confirmation prompt.
type Intent string

const (
	IntentAffirmative Intent = "affirmative"
	IntentNegative    Intent = "negative"
	IntentUnclear     Intent = "unclear"
)

// The affirmative set is tested before the negative set, so a reply that
// contains words from both ("yes but not now") resolves affirmative.
var (
	affirmativeRE = regexp.MustCompile(`\b(?:yes|sure|okay|ok|please|help|need)\b`)
	negativeRE    = regexp.MustCompile(`\b(?:no|not|don't|later|maybe)\b`)
)

// ClassifyConfirmation maps a reply to affirmative, negative, or unclear.
// Matching is case-insensitive and word-boundary delimited; a reply matching
// neither set is unclear, which callers treat the same as negative when
// deciding the empathetic framing (resources are shown either way).
func ClassifyConfirmation(reply string) Intent {
	lower := strings.ToLower(reply)
	if affirmativeRE.MatchString(lower) {
		return IntentAffirmative
	}
	if negativeRE.MatchString(lower) {
		return IntentNegative
	}
	return IntentUnclear
}
