// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the MoodEntry
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When an entry is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stressease/go-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateMoodEntry inserts a new mood entry. The ID is a randomly generated
// UUID (string) and CreatedAt is set to UTC; both are assigned here so
// callers pass only domain data.
//
// On success, it returns the persisted entry. On failure, it returns a DB error.
func CreateMoodEntry(ctx context.Context, db *gorm.DB, e *domain.MoodEntry) (*domain.MoodEntry, error) {
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// CountMoodEntries returns the total number of mood entries owned by userID.
// On DB error, it returns the error.
func CountMoodEntries(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.MoodEntry{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListRecentMoodEntries returns the last limit entries submitted by userID,
// ordered by creation time descending with the entry date as tiebreaker. The
// weekly aggregation path uses this to fetch the latest seven submissions;
// ordering by submission rather than entry date keeps backdated entries from
// displacing newer ones out of the block.
func ListRecentMoodEntries(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.MoodEntry, error) {
	var out []domain.MoodEntry
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, entry_date desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListMoodEntriesSince returns all entries for userID dated on or after the
// since date (ISO, YYYY-MM-DD), oldest first. The trend analysis consumes
// them in chronological order.
func ListMoodEntriesSince(ctx context.Context, db *gorm.DB, userID, since string) ([]domain.MoodEntry, error) {
	var out []domain.MoodEntry
	err := db.WithContext(ctx).
		Where("user_id = ? AND entry_date >= ?", userID, since).
		Order("entry_date asc, created_at asc").
		Find(&out).Error
	return out, err
}

// ListMoodEntriesPage returns a paginated slice of entries for userID, ordered
// by entry date descending. Use CountMoodEntries to obtain the total for
// pagination metadata. On DB error, it returns the error.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListMoodEntriesPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.MoodEntry, error) {
	var out []domain.MoodEntry
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("entry_date desc, created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetMoodEntry fetches a single entry by its ID and owner (userID). If the
// record does not exist, it returns ErrNotFound. On other DB errors, the raw
// error is returned.
func GetMoodEntry(ctx context.Context, db *gorm.DB, id, userID string) (*domain.MoodEntry, error) {
	var e domain.MoodEntry
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}
