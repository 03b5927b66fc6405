// Package session defines the conversational session entity and the
// key-value store abstraction that holds it. The store is constructed once at
// process start and injected into the conversation service, so the in-memory
// table can be swapped for a shared Redis store in multi-instance
// deployments without touching the state machine.
package session

import (
	"context"
	"time"
)

// OfferState tracks the two-step crisis-resource handshake for a session.
// A resolved session behaves like a fresh one going forward: risk detected
// later re-enters the pending state.
type OfferState string

const (
	OfferNotOffered OfferState = "not_offered"
	OfferPending    OfferState = "offered_pending_confirmation"
	OfferResolved   OfferState = "resolved"
)

// Turn is one utterance of the session transcript.
type Turn struct {
	Role    string    `json:"role"` // "user" or "assistant"
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Session is the per-conversation state. History is the AI dialogue context
// and is owned exclusively by this session: deleting the session discards it.
// Rev increments on every Put so CompareAndDelete can detect concurrent
// mutation. Sessions must stay serializable (see RedisStore).
type Session struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	OfferState OfferState `json:"offer_state"`
	History    []Turn     `json:"history"`
	Rev        int64      `json:"rev"`
	CreatedAt  time.Time  `json:"created_at"`
	LastSeen   time.Time  `json:"last_seen"`
}

// Append records a user/assistant exchange on the transcript.
func (s *Session) Append(userMsg, reply string, at time.Time) {
	s.History = append(s.History,
		Turn{Role: "user", Content: userMsg, At: at},
		Turn{Role: "assistant", Content: reply, At: at},
	)
	s.LastSeen = at
}

// Store is the session table. Get returns (nil, nil) for an absent id - that
// is the "session expired" condition, distinct from any storage error.
// Implementations must be safe for concurrent use across independent
// sessions; per-session write ordering is the caller's responsibility (the
// conversation service holds a per-session lock around read-modify-write).
type Store interface {
	// Get returns the session for id, or nil when the id is not tracked.
	Get(ctx context.Context, id string) (*Session, error)
	// Put inserts or replaces the session and bumps its Rev.
	Put(ctx context.Context, s *Session) error
	// Delete removes the session, reporting whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
	// CompareAndDelete removes the session only if its Rev still equals rev,
	// reporting whether it was removed.
	CompareAndDelete(ctx context.Context, id string, rev int64) (bool, error)
}
