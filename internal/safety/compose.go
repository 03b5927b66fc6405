package safety

// Crisis response templates. These are fixed text, never generated: when a
// message trips the risk detector the model is bypassed entirely and the
// session enters the offer/confirm handshake.

const crisisReplySuicide = "It sounds like you are going through a lot right now, and it's brave of you to share that. " +
	"You don't have to face this alone. For immediate support, I strongly encourage you to connect with a crisis " +
	"hotline or a mental health professional who can be there for you right now."

const crisisReplySelfHarm = "I'm really sorry you're in this much pain. Wanting to hurt yourself is a sign of how much " +
	"you're carrying, and you deserve support from someone trained to help. Please consider reaching out to a " +
	"professional or a crisis service."

const crisisReplyGeneral = "That sounds incredibly difficult, and I'm glad you told me. When things feel this heavy, " +
	"talking to a trained professional can make a real difference, and support is available around the clock."

const confirmationPrompt = "Would you like me to share some crisis support resources with you now? A simple yes or no is fine."

const revealAffirmative = "Of course. Here are people who can help right now - they're available around the clock, " +
	"and reaching out is a strong first step."

const revealDeclined = "That's completely okay, and there's no pressure at all. I'll leave these here in case you " +
	"want them later - you can come back to them any time."

// CrisisReply returns the fixed supportive template for a risk category.
// Unrecognized categories fall back to the general template.
func CrisisReply(cat Category) string {
	switch cat {
	case CategorySuicide:
		return crisisReplySuicide
	case CategorySelfHarm:
		return crisisReplySelfHarm
	default:
		return crisisReplyGeneral
	}
}

// ConfirmationPrompt returns the fixed yes/no prompt that follows a crisis
// reply and opens the pending-confirmation state.
func ConfirmationPrompt() string { return confirmationPrompt }

// ResourceReveal returns the empathetic framing that accompanies the contact
// catalog once the confirmation reply has been classified. Affirmative gets
// the direct framing; negative and unclear both get the no-pressure framing.
// The full catalog is shown in either case.
func ResourceReveal(intent Intent) string {
	if intent == IntentAffirmative {
		return revealAffirmative
	}
	return revealDeclined
}
