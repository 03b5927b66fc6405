// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// SessionArchive model: the summary records left behind when a
// conversation session is summarized and destroyed.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stressease/go-backend/internal/domain"
)

// CreateArchive inserts one archive row. The ID is a randomly generated
// UUID (string) and CreatedAt is set to UTC.
//
// On success, it returns the persisted archive. On failure, it returns a DB error.
func CreateArchive(ctx context.Context, db *gorm.DB, a *domain.SessionArchive) (*domain.SessionArchive, error) {
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// ListArchives returns all archives belonging to userID, newest first.
// It returns an empty slice if the user has none. On DB error, it returns
// the error.
func ListArchives(ctx context.Context, db *gorm.DB, userID string) ([]domain.SessionArchive, error) {
	var out []domain.SessionArchive
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}
