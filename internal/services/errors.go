// Package services defines the business logic for conversations, mood
// tracking, and crisis resources. This file centralizes common service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

// Conversation-related errors.
var (
	// ErrSessionExpired indicates that the supplied session id is not tracked:
	// the session was ended, summarized, evicted, or never existed. Expired
	// sessions are never silently recreated.
	ErrSessionExpired = errors.New("session expired")

	// ErrSessionChanged is returned when a summarize request loses a race
	// against a concurrent message on the same session.
	ErrSessionChanged = errors.New("session changed during summarization")

	// ErrEmptyMessage is returned when a chat request contains an empty or
	// whitespace-only message.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrMessageTooLong is returned when a chat message exceeds the maximum
	// configured length limit.
	ErrMessageTooLong = errors.New("message too long")

	// ErrSummaryUnavailable is returned when the generative collaborator could
	// not produce a summary for the transcript.
	ErrSummaryUnavailable = errors.New("summary unavailable")
)

// Resource-related errors.
var (
	// ErrResourcesUnavailable indicates that no regional crisis resources
	// could be produced for the requested country.
	ErrResourcesUnavailable = errors.New("no crisis resources found for country")
)
