// Package services – ConversationService
//
// This file implements ConversationService, the component that owns the
// crisis-safety conversation state machine. Every inbound message is checked
// against the risk detector before anything reaches the generative
// collaborator: a risk hit bypasses generation entirely and opens the fixed
// offer/confirm handshake, a pending handshake consumes the message as the
// confirmation reply, and only the normal branch delegates to the model,
// whose output is then post-filtered.
//
// Concurrency: session state is read-modify-write under a per-session
// (sharded by id) mutex, so two racing messages on one session can neither
// double-offer nor double-consume a pending confirmation. Independent
// sessions never serialize against each other.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include session/user identifiers. Message text is never put on spans.

package services

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/stressease/go-backend/internal/domain"
	"github.com/stressease/go-backend/internal/llm"
	"github.com/stressease/go-backend/internal/repo"
	"github.com/stressease/go-backend/internal/safety"
	"github.com/stressease/go-backend/internal/session"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"

	// fallbackTitle is used when title generation fails or returns nothing.
	fallbackTitle = "Chat Session"
)

// sessionLockShards bounds lock footprint; ids hash onto a fixed set of
// mutexes so the table never grows with session count.
const sessionLockShards = 64

type sessionLocks struct {
	shards [sessionLockShards]sync.Mutex
}

func (l *sessionLocks) lock(id string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	m := &l.shards[h.Sum32()%sessionLockShards]
	m.Lock()
	return m
}

// ConversationService coordinates the session store, the risk/confirmation
// state machine, and the generative collaborator.
type ConversationService struct {
	DB    *gorm.DB
	Store session.Store
	Gen   llm.Generator

	// GenTimeout bounds every generative call; zero means 15s.
	GenTimeout time.Duration
	// MaxMessageRunes caps inbound message length; zero means 1000.
	MaxMessageRunes int

	locks sessionLocks
}

// ChatResult is the structured outcome of one processed message.
type ChatResult struct {
	SessionID   string
	NewSession  bool
	UserMessage session.Turn
	Reply       session.Turn

	CrisisDetected       bool
	CrisisCategory       safety.Category
	ConfirmationRequired bool
	ShowResources        bool
	Resources            []safety.Contact
}

// Message runs one inbound message through the state machine and returns the
// computed reply. An absent session id opens a new session; an unknown id is
// reported as ErrSessionExpired, never silently recreated. Session state is
// written back only after the reply is fully computed.
func (s *ConversationService) Message(ctx context.Context, userID, sessionID, text string) (*ChatResult, error) {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "Message",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > s.maxMessageRunes() {
		return nil, ErrMessageTooLong
	}

	newSession := sessionID == ""
	if newSession {
		sessionID = uuid.NewString()
	}

	mu := s.locks.lock(sessionID)
	defer mu.Unlock()

	now := time.Now().UTC()
	var sess *session.Session
	if newSession {
		sess = &session.Session{
			ID:         sessionID,
			UserID:     userID,
			OfferState: session.OfferNotOffered,
			CreatedAt:  now,
			LastSeen:   now,
		}
	} else {
		var err error
		sess, err = s.Store.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		// Unknown id and foreign id look the same to the caller.
		if sess == nil || sess.UserID != userID {
			return nil, ErrSessionExpired
		}
	}

	res := &ChatResult{
		SessionID:  sessionID,
		NewSession: newSession,
	}

	var reply string
	switch {
	case sess.OfferState == session.OfferPending:
		// The message is the confirmation reply, whatever it says.
		intent := safety.ClassifyConfirmation(text)
		reply = safety.ResourceReveal(intent)
		sess.OfferState = session.OfferResolved
		res.ShowResources = true
		res.Resources = safety.Catalog()

	default:
		if risk := safety.Detect(text); risk.Risk {
			reply = safety.CrisisReply(risk.Category) + "\n\n" + safety.ConfirmationPrompt()
			sess.OfferState = session.OfferPending
			res.CrisisDetected = true
			res.CrisisCategory = risk.Category
			res.ConfirmationRequired = true
		} else {
			reply = s.generateReply(ctx, sess.History, text)
		}
	}

	sess.Append(text, reply, now)
	if err := s.Store.Put(ctx, sess); err != nil {
		return nil, err
	}

	res.UserMessage = session.Turn{Role: roleUser, Content: text, At: now}
	res.Reply = session.Turn{Role: roleAssistant, Content: reply, At: now}
	return res, nil
}

// generateReply delegates to the generative collaborator with a bounded
// timeout and post-filters the output. Upstream failure and unusable output
// both degrade to fixed fallbacks; the normal branch never errors.
func (s *ConversationService) generateReply(ctx context.Context, history []session.Turn, text string) string {
	gctx, cancel := context.WithTimeout(ctx, s.genTimeout())
	defer cancel()

	raw, err := s.Gen.Reply(gctx, history, text)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("generation failed, serving fallback")
		return safety.UpstreamFallback
	}
	validated, ok := safety.ValidateGenerated(raw)
	if !ok {
		return safety.GenericFallback
	}
	return validated
}

// EndSession removes the session and its owned dialogue history, returning
// the cleanup count (1 when a session was removed, 0 otherwise). Ending an
// unknown or foreign session is not an error.
func (s *ConversationService) EndSession(ctx context.Context, userID, sessionID string) (int, error) {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "EndSession",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	if sessionID == "" {
		return 0, nil
	}

	mu := s.locks.lock(sessionID)
	defer mu.Unlock()

	sess, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if sess == nil || sess.UserID != userID {
		return 0, nil
	}

	removed, err := s.Store.Delete(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if !removed {
		return 0, nil
	}
	return 1, nil
}

// Summarize generates a summary and short title for the session transcript,
// archives them, and destroys the session. The per-session lock is held for
// the whole operation so no message can interleave; CompareAndDelete backs
// that up for shared stores, and losing the race is ErrSessionChanged.
func (s *ConversationService) Summarize(ctx context.Context, userID, sessionID string) (*domain.SessionArchive, error) {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "Summarize",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	mu := s.locks.lock(sessionID)
	defer mu.Unlock()

	sess, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.UserID != userID {
		return nil, ErrSessionExpired
	}

	gctx, cancel := context.WithTimeout(ctx, s.genTimeout())
	summary, err := s.Gen.Summarize(gctx, sess.History)
	cancel()
	if err != nil || strings.TrimSpace(summary) == "" {
		log.Ctx(ctx).Warn().Err(err).Msg("summary generation failed")
		return nil, ErrSummaryUnavailable
	}

	// Title is best-effort; a failed or empty title falls back.
	tctx, tcancel := context.WithTimeout(ctx, s.genTimeout())
	title, terr := s.Gen.Title(tctx, sess.History)
	tcancel()
	if terr != nil || strings.TrimSpace(title) == "" {
		title = fallbackTitle
	}

	removed, err := s.Store.CompareAndDelete(ctx, sessionID, sess.Rev)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrSessionChanged
	}

	archive := &domain.SessionArchive{
		UserID:    userID,
		SessionID: sessionID,
		Title:     title,
		Summary:   strings.TrimSpace(summary),
		Turns:     len(sess.History),
		StartedAt: sess.CreatedAt,
		EndedAt:   time.Now().UTC(),
	}
	return repo.CreateArchive(ctx, s.DB, archive)
}

// Archives lists the summarized-session records for a user, newest first.
func (s *ConversationService) Archives(ctx context.Context, userID string) ([]domain.SessionArchive, error) {
	return repo.ListArchives(ctx, s.DB, userID)
}

func (s *ConversationService) genTimeout() time.Duration {
	if s.GenTimeout > 0 {
		return s.GenTimeout
	}
	return 15 * time.Second
}

func (s *ConversationService) maxMessageRunes() int {
	if s.MaxMessageRunes > 0 {
		return s.MaxMessageRunes
	}
	return 1000
}
