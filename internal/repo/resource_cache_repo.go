// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// CrisisResourceCache model: generated regional contact lists keyed by
// normalized country name.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stressease/go-backend/internal/domain"
)

// GetResourceCache fetches the cached contact list for countryKey, or
// ErrNotFound when no entry exists.
func GetResourceCache(ctx context.Context, db *gorm.DB, countryKey string) (*domain.CrisisResourceCache, error) {
	var rec domain.CrisisResourceCache
	err := db.WithContext(ctx).
		Where("country_key = ?", countryKey).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// PutResourceCache stores or refreshes the cached payload for a country.
// Upsert keeps one row per country key regardless of racing writers.
func PutResourceCache(ctx context.Context, db *gorm.DB, countryKey, country, payload string) error {
	now := time.Now().UTC()
	rec := &domain.CrisisResourceCache{
		CountryKey: countryKey,
		Country:    country,
		Payload:    payload,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "country_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"country", "payload", "updated_at"}),
		}).
		Create(rec).Error
}
