// Mood HTTP handlers.
//
// This file exposes REST endpoints for daily mood tracking:
//   - POST /mood/log      (submit the 12-question daily quiz)
//   - GET  /mood/history  (list paginated entries for the user, ETag support)
//   - GET  /mood/trends   (period averages, distribution, direction of change)
//   - GET  /mood/weekly   (list stored weekly DASS blocks)
//
// Handlers are transport-thin:
//   - bind and forward the quiz payload; field-level validation lives in the
//     mood package and is surfaced verbatim
//   - implement conditional responses (ETag) and idempotency semantics
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// submission exists for (user, "mood-log", key), the handler returns the
// recorded entry and sets `Idempotency-Replayed: true`. Entries store the raw
// answers, so a replay re-derives the same per-slot scores the original
// response carried.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stressease/go-backend/internal/domain"
	"github.com/stressease/go-backend/internal/mood"
	"github.com/stressease/go-backend/internal/repo"
	"github.com/stressease/go-backend/internal/services"
	"github.com/stressease/go-backend/internal/utils"
)

// idempotencyScopeMoodLog namespaces mood submissions in the idempotency
// table, keeping their keys independent from other POST endpoints.
const idempotencyScopeMoodLog = "mood-log"

//
// DTOs
//

// MoodLogRequest is the JSON payload for a daily quiz submission. The quiz
// sub-objects are embedded as-is; date and notes are optional extras.
type MoodLogRequest struct {
	mood.QuizPayload
	// Date optionally backdates the entry (ISO, YYYY-MM-DD); default today.
	Date string `json:"date" example:"2026-08-21"`
	// AdditionalNotes is optional free text stored with the entry.
	AdditionalNotes string `json:"additional_notes" example:"slept badly, better after a walk"`
}

// SlotView is a question slot in a response.
type SlotView struct {
	Question string `json:"question" example:"q3"`
	Score    int    `json:"score" example:"5"`
}

// MoodLogResponse is the envelope for a persisted daily entry. WeeklyDass is
// present only when this submission completed a seven-entry block.
type MoodLogResponse struct {
	LogID       string   `json:"log_id"`
	EntryDate   string   `json:"entry_date"`
	HighPoint   SlotView `json:"high_point"`
	LowPoint    SlotView `json:"low_point"`
	CoreAvg     float64  `json:"core_avg"`
	RotatingAvg float64  `json:"rotating_avg"`

	WeeklyDass *domain.WeeklyDassTotals `json:"weekly_dass,omitempty"`
}

// ListMoodHistoryResponse contains a page of mood entries and pagination
// metadata.
type ListMoodHistoryResponse struct {
	Entries    []domain.MoodEntry `json:"entries"`
	Pagination Pagination         `json:"pagination"`
}

// ListWeeklyResponse wraps the stored weekly DASS blocks.
type ListWeeklyResponse struct {
	Weeks []domain.WeeklyDassTotals `json:"weeks"`
}

// MoodTrendsResponse is the envelope for a period trend analysis. Trends is
// null when the period holds no entries.
type MoodTrendsResponse struct {
	Trends          *mood.Trends `json:"trends"`
	PeriodDays      int          `json:"period_days"`
	EntriesAnalyzed int          `json:"entries_analyzed"`
}

//
// Helpers
//

// middlewareGetIdempotencyKey extracts an idempotency key if an upstream
// middleware has already validated/stashed it. The fallback behavior reads
// the "Idempotency-Key" header directly when no dedicated middleware exists.
func middlewareGetIdempotencyKey(c *gin.Context) (string, bool) {
	if v := strings.TrimSpace(c.GetHeader("Idempotency-Key")); v != "" {
		return v, true
	}
	return "", false
}

// moodDB exposes the concrete service's DB handle for ETag and idempotency
// lookups. Returns nil when the service is not the concrete implementation.
func moodDB(svc MoodService) *gorm.DB {
	if ms, ok := svc.(*services.MoodService); ok {
		return ms.DB
	}
	return nil
}

// rescoreEntry recomputes the derived per-slot statistics from the raw
// answers stored on a persisted entry.
func rescoreEntry(e *domain.MoodEntry) mood.DailyScores {
	q := mood.Quiz{
		Mood:           e.Mood,
		Energy:         e.Energy,
		Sleep:          e.Sleep,
		Stress:         e.Stress,
		Domain:         e.RotatingDomain,
		DassDepression: e.DassDepression,
		DassAnxiety:    e.DassAnxiety,
		DassStress:     e.DassStress,
	}
	copy(q.Rotating[:], e.RotatingScores)
	return mood.Score(q)
}

//
// Handlers
//

// PostMoodLog godoc
// @ID          postMoodLog
// @Summary     Submit the daily mood quiz
// @Description Validates and scores the 12-question payload, persists the entry, and returns derived
// @Description high/low points. Completing a seven-entry block also returns the aggregated weekly DASS totals.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Mood
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.MoodLogRequest  true  "Daily quiz payload"
//
// @Success     201  {object}  handlers.MoodLogResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failure (offending field named)"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /mood/log [post]
func (h *Handlers) PostMoodLog(c *gin.Context) {
	ctx := c.Request.Context()

	var req MoodLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "invalid JSON body")
		return
	}

	currentUser := userID(c)

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := middlewareGetIdempotencyKey(c)
	if idemKey != "" {
		if db := moodDB(h.moodSvc); db != nil {
			if rec, err := repo.GetIdempotency(ctx, db, currentUser, idempotencyScopeMoodLog, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := repo.GetMoodEntry(ctx, db, rec.RefID, currentUser); err2 == nil {
					scores := rescoreEntry(prev)
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusOK, MoodLogResponse{
						LogID:     prev.ID,
						EntryDate: prev.EntryDate,
						HighPoint: SlotView{
							Question: scores.HighPoint.Question,
							Score:    scores.HighPoint.Score,
						},
						LowPoint: SlotView{
							Question: scores.LowPoint.Question,
							Score:    scores.LowPoint.Score,
						},
						CoreAvg:     prev.CoreAvg,
						RotatingAvg: prev.RotatingAvg,
					})
					return
				}
			}
		}
	}

	res, err := h.moodSvc.Log(ctx, currentUser, req.QuizPayload, strings.TrimSpace(req.Date), strings.TrimSpace(req.AdditionalNotes))
	if err != nil {
		var verr *mood.ValidationError
		if errors.As(err, &verr) {
			fail(c, http.StatusBadRequest, ErrCodeValidation, verr.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if db := moodDB(h.moodSvc); db != nil {
			ttl := 24 * time.Hour
			_, _ = repo.CreateIdempotency(ctx, db, currentUser, idempotencyScopeMoodLog, idemKey, res.Entry.ID, http.StatusCreated, ttl)
		}
	}

	ok(c, http.StatusCreated, MoodLogResponse{
		LogID:     res.Entry.ID,
		EntryDate: res.Entry.EntryDate,
		HighPoint: SlotView{
			Question: res.Scores.HighPoint.Question,
			Score:    res.Scores.HighPoint.Score,
		},
		LowPoint: SlotView{
			Question: res.Scores.LowPoint.Question,
			Score:    res.Scores.LowPoint.Score,
		},
		CoreAvg:     res.Entry.CoreAvg,
		RotatingAvg: res.Entry.RotatingAvg,
		WeeklyDass:  res.Weekly,
	})
}

// GetMoodHistory godoc
// @ID          getMoodHistory
// @Summary     List mood entries (paginated)
// @Description Returns a page of the user's mood entries, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Mood
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID (demo header)"       example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListMoodHistoryResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /mood/history [get]
func (h *Handlers) GetMoodHistory(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if db := moodDB(h.moodSvc); db != nil {
		count, maxTS, err := repo.MoodStats(ctx, db, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"moods:%s:%d:%d"`, uid, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.moodSvc.History(ctx, uid, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListMoodHistoryResponse{
		Entries: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// trendsDefaultDays and bounds clamp the lookback window of the trends
// endpoint.
const (
	trendsDefaultDays = 30
	trendsMinDays     = 7
	trendsMaxDays     = 90
)

// GetMoodTrends godoc
// @ID          getMoodTrends
// @Summary     Analyze mood trends over a period
// @Description Computes averages, a mood-band distribution, and the direction of change over the
// @Description user's entries in the lookback window. Trends is null when the window holds no entries.
// @Tags        Mood
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       days       query   int     false "Lookback window in days"  minimum(7) maximum(90) default(30)
//
// @Success     200  {object} handlers.MoodTrendsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /mood/trends [get]
func (h *Handlers) GetMoodTrends(c *gin.Context) {
	days := utils.AtoiDefault(c.Query("days"), trendsDefaultDays)
	if days < trendsMinDays {
		days = trendsMinDays
	}
	if days > trendsMaxDays {
		days = trendsMaxDays
	}

	res, err := h.moodSvc.Trends(c.Request.Context(), userID(c), days)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, MoodTrendsResponse{
		Trends:          res.Trends,
		PeriodDays:      res.PeriodDays,
		EntriesAnalyzed: res.EntriesAnalyzed,
	})
}

// GetMoodWeekly godoc
// @ID          getMoodWeekly
// @Summary     List weekly DASS totals
// @Description Returns the user's stored weekly aggregation blocks, newest first.
// @Tags        Mood
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object} handlers.ListWeeklyResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /mood/weekly [get]
func (h *Handlers) GetMoodWeekly(c *gin.Context) {
	weeks, err := h.moodSvc.Weekly(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListWeeklyResponse{Weeks: weeks})
}
