// Package safety implements the crisis-safety layer of the backend: lexical
// risk detection on user messages, confirmation-intent classification for the
// two-step resource offer, fixed supportive response templates, a post-filter
// for untrusted generated text, and the static crisis-contact catalog.
//
// Everything in this package is deterministic and free of side effects so it
// can be exercised exhaustively in tests. Detection is pattern matching, not
// classification: a phrase either matches a category's word-boundary pattern
// or it does not.
package safety

import (
	"regexp"
	"strings"
)

// Category identifies the kind of risk detected in a message.
type Category string

const (
	CategorySuicide  Category = "suicide"
	CategorySelfHarm Category = "self_harm"
	CategoryGeneral  Category = "general"
	CategoryNone     Category = "none"
)

// RiskResult is the outcome of running Detect over a single message.
// It is recomputed for every message and never stored.
type RiskResult struct {
	Risk     bool
	Category Category
}

// categoryPatterns maps each category to its phrase list. Declaration order
// matters: the first category with a matching phrase wins, so a message that
// mentions both suicidal and self-harm language is classified as suicide.
var categoryOrder = []Category{CategorySuicide, CategorySelfHarm, CategoryGeneral}

var categoryPhrases = map[Category][]string{
	CategorySuicide: {
		"suicide", "suicidal",
		"kill myself", "end my life", "take my own life",
		"want to die", "wish i was dead", "better off dead",
		"end it all",
	},
	CategorySelfHarm: {
		"self-harm", "self harm",
		"hurt myself", "harm myself", "cut myself", "cutting myself",
		"burn myself",
	},
	CategoryGeneral: {
		"crisis", "emergency",
		"can't go on", "cant go on", "can't cope", "cant cope",
		"hopeless", "no way out", "give up on life",
	},
}

var categoryRE = compileCategories()

// compileCategories turns each phrase list into one alternation anchored on
// word boundaries, matched against lower-cased input.
func compileCategories() map[Category]*regexp.Regexp {
	out := make(map[Category]*regexp.Regexp, len(categoryPhrases))
	for cat, phrases := range categoryPhrases {
		quoted := make([]string, 0, len(phrases))
		for _, p := range phrases {
			quoted = append(quoted, regexp.QuoteMeta(p))
		}
		out[cat] = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}
	return out
}

// Detect classifies message text into a risk category. It lower-cases the
// input and tests the categories in declaration order (suicide, self_harm,
// general); absence of any match is a valid outcome, not an error.
func Detect(text string) RiskResult {
	lower := strings.ToLower(text)
	for _, cat := range categoryOrder {
		if categoryRE[cat].MatchString(lower) {
			return RiskResult{Risk: true, Category: cat}
		}
	}
	return RiskResult{Risk: false, Category: CategoryNone}
}
