package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stressease/go-backend/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Unique DB per test to avoid schema leaking across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestMoodStats_CountError_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	_, _, err := MoodStats(context.Background(), db, "u1")
	if err == nil {
		t.Fatalf("expected error due to missing mood_entries table")
	}
}

func TestMoodStats_ZeroRows(t *testing.T) {
	db := newTestDB(t, &domain.MoodEntry{})
	count, maxAt, err := MoodStats(context.Background(), db, "u1")
	if err != nil {
		t.Fatalf("MoodStats error: %v", err)
	}
	if count != 0 || maxAt != nil {
		t.Fatalf("expected (0, nil), got (%d, %v)", count, maxAt)
	}
}

func TestMoodStats_Success_FilterAndMax(t *testing.T) {
	db := newTestDB(t, &domain.MoodEntry{})

	// Seed entries for two users; ensure UpdatedAt is exactly what we set.
	t1 := time.Date(2026, 8, 2, 15, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 8, 4, 10, 30, 0, 0, time.UTC) // max for u1
	t3 := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)   // for other user

	e1 := moodEntry("u1", "2026-08-02")
	e1.ID, e1.CreatedAt, e1.UpdatedAt = "e1", t1, t1
	e2 := moodEntry("u1", "2026-08-04")
	e2.ID, e2.CreatedAt, e2.UpdatedAt = "e2", t2, t2
	e3 := moodEntry("u2", "2026-08-03")
	e3.ID, e3.CreatedAt, e3.UpdatedAt = "e3", t3, t3

	for _, e := range []*domain.MoodEntry{e1, e2, e3} {
		if err := db.Create(e).Error; err != nil {
			t.Fatalf("seed %s: %v", e.ID, err)
		}
	}

	count, maxAt, err := MoodStats(context.Background(), db, "u1")
	if err != nil {
		t.Fatalf("MoodStats error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if maxAt == nil || !maxAt.Equal(t2) {
		t.Fatalf("expected maxUpdatedAt %v, got %v", t2, maxAt)
	}
}

// Force the second query (SELECT updated_at ...) to fail by renaming the column.
func TestMoodStats_SelectLatest_ErrorPath(t *testing.T) {
	db := newTestDB(t, &domain.MoodEntry{})

	// Seed at least one row so count > 0
	e := moodEntry("uerr", "2026-08-01")
	e.ID = "ex"
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	// Break the follow-up select by removing/renaming updated_at.
	if err := db.Exec(`ALTER TABLE mood_entries RENAME COLUMN updated_at TO updated_at_old`).Error; err != nil {
		t.Fatalf("rename column: %v", err)
	}

	_, _, err := MoodStats(context.Background(), db, "uerr")
	if err == nil {
		t.Fatalf("expected error from latest-updated select after column rename")
	}
}
