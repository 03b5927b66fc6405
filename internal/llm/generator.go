// Package llm – Generator contract
//
// This file defines the Generator interface that the conversation and
// resource services depend on for model-backed text: empathetic chat
// replies, end-of-session summaries and titles, and country-specific
// crisis-resource lookups. Keeping the contract small lets tests swap
// in deterministic fakes and keeps the Gemini wiring in one place.
package llm

import (
	"context"

	"github.com/stressease/go-backend/internal/safety"
	"github.com/stressease/go-backend/internal/session"
)

// Generator produces model text for the conversational surfaces.
// All methods honor ctx cancellation and deadlines; callers bound
// generation latency with context timeouts.
type Generator interface {
	// Reply continues a conversation: history is every prior turn in
	// order, message is the user's new utterance. The returned text is
	// raw model output; callers run it through safety validation.
	Reply(ctx context.Context, history []session.Turn, message string) (string, error)

	// Summarize condenses a finished conversation into a paragraph
	// covering topics, emotions, and strategies discussed.
	Summarize(ctx context.Context, history []session.Turn) (string, error)

	// Title produces a short descriptive label (3-5 words) for a
	// finished conversation.
	Title(ctx context.Context, history []session.Turn) (string, error)

	// RegionalResources looks up crisis contacts for a country. The
	// result is advisory and cached upstream; the static catalog is
	// always available as a fallback.
	RegionalResources(ctx context.Context, country string) ([]safety.Contact, error)

	// Close releases the underlying client.
	Close() error
}
