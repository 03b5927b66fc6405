// Chat HTTP handlers.
//
// This file exposes REST endpoints for the support conversation:
//   - POST /chat/message      (send a message, receive the assistant reply)
//   - POST /chat/end-session  (discard a tracked session)
//   - POST /chat/summary      (summarize, archive, and destroy a session)
//   - GET  /chat/archives     (list archived session summaries)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses. The crisis-safety flow is fully
// owned by the service layer; handlers only surface its outcome fields.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/stressease/go-backend/internal/domain"
	"github.com/stressease/go-backend/internal/mood"
	"github.com/stressease/go-backend/internal/safety"
	"github.com/stressease/go-backend/internal/services"
	"github.com/stressease/go-backend/internal/session"
	"github.com/stressease/go-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ConversationService defines the conversation operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ConversationService interface {
	// Message routes one user message through the safety state machine and
	// returns the composed reply. An empty sessionID starts a new session.
	Message(ctx context.Context, userID, sessionID, text string) (*services.ChatResult, error)
	// EndSession discards a tracked session and returns the cleanup count.
	EndSession(ctx context.Context, userID, sessionID string) (int, error)
	// Summarize archives a session's transcript and destroys the session.
	Summarize(ctx context.Context, userID, sessionID string) (*domain.SessionArchive, error)
	// Archives lists the user's archived sessions, newest first.
	Archives(ctx context.Context, userID string) ([]domain.SessionArchive, error)
}

// MoodService defines the daily quiz operations consumed by HTTP handlers.
type MoodService interface {
	// Log validates, scores, and persists one daily quiz submission.
	Log(ctx context.Context, userID string, payload mood.QuizPayload, date, notes string) (*services.MoodLogResult, error)
	// History returns a page of the user's mood entries and the total count.
	History(ctx context.Context, userID string, page, pageSize int) ([]domain.MoodEntry, int64, error)
	// Trends analyzes the user's entries over a lookback period.
	Trends(ctx context.Context, userID string, days int) (*services.MoodTrendsResult, error)
	// Weekly returns the user's stored weekly DASS blocks, newest first.
	Weekly(ctx context.Context, userID string) ([]domain.WeeklyDassTotals, error)
}

// ResourceService defines crisis-resource lookups consumed by HTTP handlers.
type ResourceService interface {
	// Catalog returns the fixed, ordered crisis contact catalog.
	Catalog() []safety.Contact
	// Regional returns crisis contacts for a country, cache-aside.
	Regional(ctx context.Context, country string) ([]safety.Contact, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for chat, mood tracking, and crisis
// resources. It depends on abstract service interfaces to keep transport
// concerns separate from business logic.
type Handlers struct {
	convSvc ConversationService
	moodSvc MoodService
	resSvc  ResourceService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(convSvc ConversationService, moodSvc MoodService, resSvc ResourceService) *Handlers {
	return &Handlers{convSvc: convSvc, moodSvc: moodSvc, resSvc: resSvc}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// DTOs
//

// ChatMessageRequest is the JSON payload for sending a chat message.
type ChatMessageRequest struct {
	// Message is the user's text. It must be non-empty after trimming.
	Message string `json:"message" binding:"required,min=1" example:"I had a rough day at work today"`
	// SessionID continues an existing session; empty or absent starts a new one.
	SessionID string `json:"session_id" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
}

// ChatMessageResponse is the envelope for one conversation exchange. The
// crisis fields are present only when the safety state machine engaged on
// this turn.
type ChatMessageResponse struct {
	SessionID   string       `json:"session_id"`
	NewSession  bool         `json:"new_session,omitempty"`
	UserMessage session.Turn `json:"user_message"`
	AIResponse  session.Turn `json:"ai_response"`

	CrisisDetected       bool             `json:"crisis_detected,omitempty"`
	CrisisCategory       string           `json:"crisis_category,omitempty"`
	ConfirmationRequired bool             `json:"confirmation_required,omitempty"`
	ShowResources        bool             `json:"show_resources,omitempty"`
	CrisisResources      []safety.Contact `json:"crisis_resources,omitempty"`
}

// EndSessionRequest is the JSON payload for ending a session.
type EndSessionRequest struct {
	SessionID string `json:"session_id" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
}

// EndSessionResponse reports how many sessions the request removed (0 or 1).
type EndSessionResponse struct {
	CleanupCount int `json:"cleanup_count"`
}

// SummarizeRequest is the JSON payload for summarizing a session.
type SummarizeRequest struct {
	SessionID string `json:"session_id" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
}

// ListArchivesResponse wraps the user's archived session summaries.
type ListArchivesResponse struct {
	Archives []domain.SessionArchive `json:"archives"`
}

//
// Helpers
//

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeContent normalizes user text for consistent downstream behavior:
//   - converts CRLF/CR to LF,
//   - collapses runs of 3+ LFs to exactly two (paragraph separation),
//   - trims surrounding whitespace.
func sanitizeContent(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// discoverMaxMessageRunes inspects the concrete ConversationService for a
// configured message-length limit. If unavailable, it returns the default.
func discoverMaxMessageRunes(convSvc ConversationService) int {
	const fallback = 1000
	if cs, ok := convSvc.(*services.ConversationService); ok {
		if cs.MaxMessageRunes > 0 {
			return cs.MaxMessageRunes
		}
	}
	return fallback
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

//
// Handlers
//

// PostChatMessage godoc
// @ID          postChatMessage
// @Summary     Send a chat message
// @Description Routes one user message through the conversation state machine and returns the assistant reply.
// @Description Crisis-risk messages receive a support handshake instead of a generated reply.
// @Tags        Chat
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.ChatMessageRequest  true  "Chat message payload"
//
// @Success     201  {object}  handlers.ChatMessageResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Session expired"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/message [post]
func (h *Handlers) PostChatMessage(c *gin.Context) {
	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "message required")
		return
	}

	// Sanitize + early size cap to fail fast at the edge.
	text := sanitizeContent(req.Message)
	maxRunes := discoverMaxMessageRunes(h.convSvc)
	if text == "" {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "message required")
		return
	}
	if maxRunes > 0 && utf8.RuneCountInString(text) > maxRunes {
		fail(c, http.StatusBadRequest, ErrCodeValidation, fmt.Sprintf("message too long: max %d characters", maxRunes))
		return
	}

	res, err := h.convSvc.Message(c.Request.Context(), userID(c), strings.TrimSpace(req.SessionID), text)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			fail(c, http.StatusBadRequest, ErrCodeValidation, "message required")
		case errors.Is(err, services.ErrMessageTooLong):
			fail(c, http.StatusBadRequest, ErrCodeValidation, fmt.Sprintf("message too long: max %d characters", maxRunes))
		case errors.Is(err, services.ErrSessionExpired):
			fail(c, http.StatusNotFound, ErrCodeSessionExpired, "session not found or expired")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	resp := ChatMessageResponse{
		SessionID:            res.SessionID,
		NewSession:           res.NewSession,
		UserMessage:          res.UserMessage,
		AIResponse:           res.Reply,
		CrisisDetected:       res.CrisisDetected,
		ConfirmationRequired: res.ConfirmationRequired,
		ShowResources:        res.ShowResources,
		CrisisResources:      res.Resources,
	}
	if res.CrisisDetected && res.CrisisCategory != safety.CategoryNone {
		resp.CrisisCategory = string(res.CrisisCategory)
	}
	ok(c, http.StatusCreated, resp)
}

// EndChatSession godoc
// @ID          endChatSession
// @Summary     End a chat session
// @Description Removes the tracked session state and its dialogue history.
// @Description Unknown or foreign sessions yield a cleanup count of zero, not an error.
// @Tags        Chat
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.EndSessionRequest  true  "Session to end"
//
// @Success     200  {object}  handlers.EndSessionResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/end-session [post]
func (h *Handlers) EndChatSession(c *gin.Context) {
	var req EndSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.SessionID) == "" {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "session_id required")
		return
	}

	n, err := h.convSvc.EndSession(c.Request.Context(), userID(c), strings.TrimSpace(req.SessionID))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, EndSessionResponse{CleanupCount: n})
}

// SummarizeChatSession godoc
// @ID          summarizeChatSession
// @Summary     Summarize and archive a session
// @Description Generates a summary and title for the session transcript, persists the archive,
// @Description and destroys the live session. The session survives a failed summary and can be retried.
// @Tags        Chat
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.SummarizeRequest  true  "Session to summarize"
//
// @Success     200  {object}  domain.SessionArchive
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Session expired"
// @Failure     409  {object}  handlers.ErrorResponse  "Session changed during summarization"
// @Failure     502  {object}  handlers.ErrorResponse  "Summary generation failed"
// @Router      /chat/summary [post]
func (h *Handlers) SummarizeChatSession(c *gin.Context) {
	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.SessionID) == "" {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "session_id required")
		return
	}

	arc, err := h.convSvc.Summarize(c.Request.Context(), userID(c), strings.TrimSpace(req.SessionID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionExpired):
			fail(c, http.StatusNotFound, ErrCodeSessionExpired, "session not found or expired")
		case errors.Is(err, services.ErrSessionChanged):
			fail(c, http.StatusConflict, ErrCodeConflict, "session changed during summarization, retry")
		case errors.Is(err, services.ErrSummaryUnavailable):
			fail(c, http.StatusBadGateway, ErrCodeSummaryFailed, "summary generation failed, session kept")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, arc)
}

// ListChatArchives godoc
// @ID          listChatArchives
// @Summary     List archived session summaries
// @Tags        Chat
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object}  handlers.ListArchivesResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/archives [get]
func (h *Handlers) ListChatArchives(c *gin.Context) {
	items, err := h.convSvc.Archives(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListArchivesResponse{Archives: items})
}
