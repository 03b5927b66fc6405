// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// WeeklyDassTotals model.
//
// The repository follows a "thin" approach: it performs persistence and simple
// query composition, leaving business rules to the services package.
//
// Error semantics:
//   - A duplicate block (same user_id, week_start, week_end) is detected via
//     the database unique constraint and returned as ErrDuplicate. The
//     service layer treats it as an already-aggregated window and skips.
//   - On other DB errors (connectivity, constraints, etc.), the raw gorm
//     error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stressease/go-backend/internal/domain"
)

// InsertWeeklyTotals inserts one aggregated block for the given user and
// window. The combination (user_id, week_start, week_end) must be unique,
// enforced by the database schema; a violation is returned as ErrDuplicate
// so racing aggregations of the same window collapse to a single row.
//
// On success, it returns the persisted record.
func InsertWeeklyTotals(ctx context.Context, db *gorm.DB, userID, weekStart, weekEnd string, depression, anxiety, stress int) (*domain.WeeklyDassTotals, error) {
	w := &domain.WeeklyDassTotals{
		ID:         uuid.NewString(),
		UserID:     userID,
		WeekStart:  weekStart,
		WeekEnd:    weekEnd,
		Depression: depression,
		Anxiety:    anxiety,
		Stress:     stress,
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(w).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return w, nil
}

// WeeklyTotalsExist reports whether a block is already stored for the given
// user and window.
func WeeklyTotalsExist(ctx context.Context, db *gorm.DB, userID, weekStart, weekEnd string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.WeeklyDassTotals{}).
		Where("user_id = ? AND week_start = ? AND week_end = ?", userID, weekStart, weekEnd).
		Count(&n).Error
	return n > 0, err
}

// ListWeeklyTotals returns all stored blocks for userID, newest window first.
// It returns an empty slice if the user has none. On DB error, it returns
// the error.
func ListWeeklyTotals(ctx context.Context, db *gorm.DB, userID string) ([]domain.WeeklyDassTotals, error) {
	var out []domain.WeeklyDassTotals
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("week_start desc").
		Find(&out).Error
	return out, err
}
