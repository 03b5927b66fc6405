// Package services – MoodService
//
// This file implements MoodService: validation and scoring of the daily mood
// quiz, persistence of entries, and the weekly DASS aggregation trigger that
// runs after every successful submission. The aggregation side effect is
// best-effort: storage failures and duplicate windows are logged and
// swallowed, the daily entry itself always wins.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include user identifiers and pagination parameters where applicable.

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/stressease/go-backend/internal/domain"
	"github.com/stressease/go-backend/internal/mood"
	"github.com/stressease/go-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MoodService owns the daily quiz pipeline and weekly aggregation.
type MoodService struct {
	DB *gorm.DB
}

// MoodLogResult is the outcome of one quiz submission. Weekly is non-nil only
// when this submission completed a seven-entry block and its totals were
// stored by this call.
type MoodLogResult struct {
	Entry  *domain.MoodEntry
	Scores mood.DailyScores
	Weekly *domain.WeeklyDassTotals
}

// Log validates and scores a quiz payload, persists the entry, and fires the
// weekly aggregation trigger. Validation failures return a
// *mood.ValidationError naming the offending field; a storage failure on the
// entry itself is a hard error. date is optional ISO (YYYY-MM-DD) and
// defaults to today; notes is optional free text.
func (s *MoodService) Log(ctx context.Context, userID string, payload mood.QuizPayload, date, notes string) (*MoodLogResult, error) {
	tr := otel.Tracer("services/MoodService")
	ctx, span := tr.Start(ctx, "Log",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	quiz, err := mood.ValidateQuiz(payload)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entryDate := now.Format(mood.ISODate)
	if date != "" {
		d, perr := time.Parse(mood.ISODate, date)
		if perr != nil {
			return nil, &mood.ValidationError{Section: "date", Reason: "must be an ISO date (YYYY-MM-DD)"}
		}
		entryDate = d.Format(mood.ISODate)
	}

	scores := mood.Score(quiz)

	entry := &domain.MoodEntry{
		UserID:         userID,
		EntryDate:      entryDate,
		RotatingDomain: quiz.Domain,
		Mood:           quiz.Mood,
		Energy:         quiz.Energy,
		Sleep:          quiz.Sleep,
		Stress:         quiz.Stress,
		RotatingScores: quiz.Rotating[:],
		HighPoint:      scores.HighPoint.Question,
		LowPoint:       scores.LowPoint.Question,
		CoreAvg:        scores.CoreAvg,
		RotatingAvg:    scores.RotatingAvg,
		DassDepression: quiz.DassDepression,
		DassAnxiety:    quiz.DassAnxiety,
		DassStress:     quiz.DassStress,
		Notes:          notes,
	}
	entry, err = repo.CreateMoodEntry(ctx, s.DB, entry)
	if err != nil {
		return nil, err
	}

	return &MoodLogResult{
		Entry:  entry,
		Scores: scores,
		Weekly: s.maybeAggregate(ctx, userID),
	}, nil
}

// maybeAggregate runs the weekly trigger: when the user's entry count reaches
// an exact multiple of seven, the newest seven entries are rescaled, summed,
// and stored as one WeeklyDassTotals block. Every failure path skips silently
// (with a log line); aggregation is a derived artifact, never a reason to
// fail the submission.
func (s *MoodService) maybeAggregate(ctx context.Context, userID string) *domain.WeeklyDassTotals {
	count, err := repo.CountMoodEntries(ctx, s.DB, userID)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("weekly aggregation: count failed")
		return nil
	}
	if count < mood.BlockSize || count%mood.BlockSize != 0 {
		return nil
	}

	entries, err := repo.ListRecentMoodEntries(ctx, s.DB, userID, mood.BlockSize)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("weekly aggregation: fetch failed")
		return nil
	}
	// Partial blocks are a data inconsistency guard, never aggregated.
	if len(entries) < mood.BlockSize {
		return nil
	}

	samples := make([]mood.DassSample, 0, mood.BlockSize)
	for _, e := range entries {
		d, perr := time.Parse(mood.ISODate, e.EntryDate)
		if perr != nil {
			d = e.CreatedAt
		}
		samples = append(samples, mood.DassSample{
			Date:       d,
			Depression: e.DassDepression,
			Anxiety:    e.DassAnxiety,
			Stress:     e.DassStress,
		})
	}

	totals, ok := mood.Aggregate(samples)
	if !ok {
		return nil
	}

	// The unique index still catches a racing submission that stores the
	// window between this read and the insert.
	exists, err := repo.WeeklyTotalsExist(ctx, s.DB, userID, totals.WeekStart, totals.WeekEnd)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("weekly aggregation: existence check failed")
		return nil
	}
	if exists {
		return nil
	}

	w, err := repo.InsertWeeklyTotals(ctx, s.DB, userID,
		totals.WeekStart, totals.WeekEnd,
		totals.Depression, totals.Anxiety, totals.Stress)
	if errors.Is(err, repo.ErrDuplicate) {
		// The window was already aggregated (possibly by a racing submission).
		return nil
	}
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("weekly aggregation: insert failed")
		return nil
	}
	return w
}

// History returns paginated mood entries for a user, newest first.
func (s *MoodService) History(ctx context.Context, userID string, page, pageSize int) ([]domain.MoodEntry, int64, error) {
	tr := otel.Tracer("services/MoodService")
	ctx, span := tr.Start(ctx, "History",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountMoodEntries(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.MoodEntry{}, 0, nil
	}

	items, err := repo.ListMoodEntriesPage(ctx, s.DB, userID, offset, pageSize)
	return items, total, err
}

// MoodTrendsResult is the outcome of a trend analysis over a lookback period.
// Trends is nil when the period holds no entries.
type MoodTrendsResult struct {
	Trends          *mood.Trends
	PeriodDays      int
	EntriesAnalyzed int
}

// Trends analyzes the user's entries over the last days days. Entries are
// consumed oldest first so the direction compares the early half of the
// period against the late half. The caller is expected to clamp days to a
// sensible range; values below 1 are coerced to 1.
func (s *MoodService) Trends(ctx context.Context, userID string, days int) (*MoodTrendsResult, error) {
	tr := otel.Tracer("services/MoodService")
	ctx, span := tr.Start(ctx, "Trends",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("days", days),
		),
	)
	defer span.End()

	if days < 1 {
		days = 1
	}
	since := time.Now().UTC().AddDate(0, 0, -days).Format(mood.ISODate)

	entries, err := repo.ListMoodEntriesSince(ctx, s.DB, userID, since)
	if err != nil {
		return nil, err
	}

	samples := make([]mood.TrendSample, 0, len(entries))
	for _, e := range entries {
		samples = append(samples, mood.TrendSample{CoreAvg: e.CoreAvg, Stress: e.DassStress})
	}

	return &MoodTrendsResult{
		Trends:          mood.AnalyzeTrends(samples),
		PeriodDays:      days,
		EntriesAnalyzed: len(entries),
	}, nil
}

// Weekly returns the stored weekly DASS blocks for a user, newest first.
func (s *MoodService) Weekly(ctx context.Context, userID string) ([]domain.WeeklyDassTotals, error) {
	tr := otel.Tracer("services/MoodService")
	ctx, span := tr.Start(ctx, "Weekly",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	return repo.ListWeeklyTotals(ctx, s.DB, userID)
}
