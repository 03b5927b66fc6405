package safety

import "strings"

// Phrase lists for the generated-text post-filter. These are substring
// checks, deliberately looser than the word-boundary detector: the input here
// is untrusted model output and the cost of a false positive is a slightly
// over-cautious canned reply.
var (
	escalationPhrases = []string{
		"suicide", "self-harm", "kill yourself", "end it all", "hurt myself", "die",
	}

	diagnosisPhrases = []string{
		"you have ", "you are suffering from", "you might have", "you probably have",
		"sounds like you have", "diagnosis", "diagnose", "condition is", "disorder",
		"i diagnose", "you exhibit symptoms of", "clinical depression", "clinical anxiety",
		"you are experiencing", "you are exhibiting", "pathological", "psychiatric condition",
	}

	treatmentPhrases = []string{
		"you should take", "you need to take", "prescribe", "medication", "dosage",
		"you should try", "treatment plan", "medical treatment", "therapy regimen",
	}
)

const escalationRedirect = "I notice this conversation is touching on something serious. If you're experiencing " +
	"a crisis, please reach out to a professional immediately - crisis support is available 24/7 through the " +
	"app's crisis support section. Would you like me to share those resources with you?"

const diagnosisBoundary = "I'm here to listen and support you, but I can't provide medical diagnoses or clinical " +
	"advice. Consider discussing your feelings with a healthcare professional who can provide personalized " +
	"guidance. How else can I support you today?"

const treatmentBoundary = "I'm here to provide emotional support, but I can't recommend specific treatments or " +
	"medications. A healthcare professional would be the best person to discuss treatment options with you. " +
	"Is there something else on your mind that you'd like to talk about?"

// ValidateGenerated post-filters untrusted generated text. It returns the
// text unchanged when it passes, a fixed substitute when it contains
// escalation, diagnostic-claim, or treatment-advice language, and ok=false
// when the input is empty or whitespace-only (caller substitutes its generic
// fallback). This filter is independent of the risk detector: it guards what
// the model says, not what the user said.
func ValidateGenerated(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	lower := strings.ToLower(text)
	for _, p := range escalationPhrases {
		if strings.Contains(lower, p) {
			return escalationRedirect, true
		}
	}
	for _, p := range diagnosisPhrases {
		if strings.Contains(lower, p) {
			return diagnosisBoundary, true
		}
	}
	for _, p := range treatmentPhrases {
		if strings.Contains(lower, p) {
			return treatmentBoundary, true
		}
	}
	return text, true
}

// GenericFallback is the reply substituted when generation produced nothing
// usable (empty output, upstream failure handled by the caller).
const GenericFallback = "I'm sorry, I couldn't come up with a helpful response just now. How else can I support you today?"

// UpstreamFallback is the reply substituted when the generative collaborator
// failed or timed out. The user keeps a working session either way.
const UpstreamFallback = "I'm having trouble connecting right now. Could we try again in a moment?"
