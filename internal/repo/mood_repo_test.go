package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stressease/go-backend/internal/domain"
)

func newRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func moodEntry(userID, date string) *domain.MoodEntry {
	return &domain.MoodEntry{
		UserID:         userID,
		EntryDate:      date,
		RotatingDomain: "social_connection",
		Mood:           5,
		Energy:         3,
		Sleep:          2,
		Stress:         3,
		RotatingScores: []int{3, 2, 3, 2, 3},
		HighPoint:      "q1",
		LowPoint:       "q3",
		CoreAvg:        3.25,
		RotatingAvg:    2.6,
		DassDepression: 2,
		DassAnxiety:    1,
		DassStress:     3,
	}
}

func TestCreateMoodEntry_Error_NoTable(t *testing.T) {
	db := newRepoDB(t /* no migrations */)
	got, err := CreateMoodEntry(context.Background(), db, moodEntry("u1", "2026-08-21"))
	if err == nil || got != nil {
		t.Fatalf("expected error creating without table, got entry=%v err=%v", got, err)
	}
}

func TestCreateMoodEntry_Success_AssignsIDAndTimestamp(t *testing.T) {
	db := newRepoDB(t, &domain.MoodEntry{})

	start := time.Now().UTC().Add(-time.Minute)
	got, err := CreateMoodEntry(context.Background(), db, moodEntry("u1", "2026-08-21"))
	if err != nil {
		t.Fatalf("CreateMoodEntry: %v", err)
	}
	if got.ID == "" || got.UserID != "u1" || got.EntryDate != "2026-08-21" {
		t.Fatalf("unexpected MoodEntry fields: %+v", got)
	}
	if got.CreatedAt.Before(start) {
		t.Fatalf("CreatedAt seems unset/really old: %v", got.CreatedAt)
	}
	// round-trip
	var loaded domain.MoodEntry
	if err := db.First(&loaded, "id = ?", got.ID).Error; err != nil {
		t.Fatalf("load created entry: %v", err)
	}
	if loaded.HighPoint != "q1" || loaded.DassStress != 3 {
		t.Fatalf("round-trip mismatch: %+v", loaded)
	}
	// Raw answers survive the round trip, including the serialized slice.
	if loaded.Mood != 5 || loaded.Sleep != 2 {
		t.Fatalf("raw core answers lost: %+v", loaded)
	}
	if len(loaded.RotatingScores) != 5 || loaded.RotatingScores[0] != 3 || loaded.RotatingScores[1] != 2 {
		t.Fatalf("raw rotating answers lost: %v", loaded.RotatingScores)
	}
}

func TestCountMoodEntries_FiltersByUser(t *testing.T) {
	db := newRepoDB(t, &domain.MoodEntry{})
	ctx := context.Background()

	for i, u := range []string{"u1", "u1", "u2"} {
		e := moodEntry(u, fmt.Sprintf("2026-08-%02d", 10+i))
		if _, err := CreateMoodEntry(ctx, db, e); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	n, err := CountMoodEntries(ctx, db, "u1")
	if err != nil || n != 2 {
		t.Fatalf("CountMoodEntries(u1) = %d, %v; want 2", n, err)
	}
	n, err = CountMoodEntries(ctx, db, "nobody")
	if err != nil || n != 0 {
		t.Fatalf("CountMoodEntries(nobody) = %d, %v; want 0", n, err)
	}
}

func TestListRecentMoodEntries_BySubmissionTime(t *testing.T) {
	db := newRepoDB(t, &domain.MoodEntry{})
	ctx := context.Background()

	// Entry dates run out of order relative to submission: the newest
	// submission backdates its entry to 2026-08-10. Selection must follow
	// submission time, so the backdated entry still makes the cut.
	dates := []string{"2026-08-12", "2026-08-14", "2026-08-13", "2026-08-10"}
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	for i, d := range dates {
		e, err := CreateMoodEntry(ctx, db, moodEntry("u1", d))
		if err != nil {
			t.Fatalf("seed %s: %v", d, err)
		}
		if err := db.Model(e).Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error; err != nil {
			t.Fatalf("set created_at for %s: %v", d, err)
		}
	}

	got, err := ListRecentMoodEntries(ctx, db, "u1", 3)
	if err != nil {
		t.Fatalf("ListRecentMoodEntries: %v", err)
	}
	want := []string{"2026-08-10", "2026-08-13", "2026-08-14"}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i, d := range want {
		if got[i].EntryDate != d {
			t.Errorf("entry[%d].EntryDate = %s, want %s", i, got[i].EntryDate, d)
		}
	}
}

func TestListMoodEntriesSince_WindowAndChronologicalOrder(t *testing.T) {
	db := newRepoDB(t, &domain.MoodEntry{})
	ctx := context.Background()

	for _, d := range []string{"2026-08-05", "2026-08-01", "2026-07-28", "2026-08-03"} {
		if _, err := CreateMoodEntry(ctx, db, moodEntry("u1", d)); err != nil {
			t.Fatalf("seed %s: %v", d, err)
		}
	}
	if _, err := CreateMoodEntry(ctx, db, moodEntry("u2", "2026-08-04")); err != nil {
		t.Fatalf("seed other user: %v", err)
	}

	got, err := ListMoodEntriesSince(ctx, db, "u1", "2026-08-01")
	if err != nil {
		t.Fatalf("ListMoodEntriesSince: %v", err)
	}
	want := []string{"2026-08-01", "2026-08-03", "2026-08-05"}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i, d := range want {
		if got[i].EntryDate != d {
			t.Errorf("entry[%d].EntryDate = %s, want %s", i, got[i].EntryDate, d)
		}
	}
}

func TestListMoodEntriesPage_OffsetAndLimit(t *testing.T) {
	db := newRepoDB(t, &domain.MoodEntry{})
	ctx := context.Background()

	for day := 1; day <= 5; day++ {
		if _, err := CreateMoodEntry(ctx, db, moodEntry("u1", fmt.Sprintf("2026-08-%02d", day))); err != nil {
			t.Fatalf("seed day %d: %v", day, err)
		}
	}

	page, err := ListMoodEntriesPage(ctx, db, "u1", 2, 2)
	if err != nil {
		t.Fatalf("ListMoodEntriesPage: %v", err)
	}
	if len(page) != 2 || page[0].EntryDate != "2026-08-03" || page[1].EntryDate != "2026-08-02" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestGetMoodEntry_NotFoundAndOwnership(t *testing.T) {
	db := newRepoDB(t, &domain.MoodEntry{})
	ctx := context.Background()

	created, err := CreateMoodEntry(ctx, db, moodEntry("u1", "2026-08-21"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := GetMoodEntry(ctx, db, created.ID, "u2"); err != ErrNotFound {
		t.Fatalf("cross-user read: err = %v, want ErrNotFound", err)
	}
	got, err := GetMoodEntry(ctx, db, created.ID, "u1")
	if err != nil || got.ID != created.ID {
		t.Fatalf("owner read: %+v, %v", got, err)
	}
}
