// Package domain defines the persistence models for mood tracking,
// weekly assessment totals, cached regional crisis resources, and
// archived conversation summaries. These types are mapped with GORM and
// form the data layer of the wellness backend.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// MoodEntry is one submitted daily mood quiz with its derived scores.
// Entries are append-only; nothing in the application updates a row
// after creation.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: identifier of the submitting user; indexed for retrieval.
//   - EntryDate: the day the quiz describes, ISO date (YYYY-MM-DD).
//   - RotatingDomain: name of the week's rotating question block.
//   - HighPoint / LowPoint: slot identifiers (q1..q12) of the best and
//     worst answers for the day.
//   - Mood/Energy/Sleep/Stress and RotatingScores: the raw 1..5 answers as
//     submitted, so history and idempotent replays return exactly what the
//     user sent and derived values can always be recomputed from the row.
//   - CoreAvg / RotatingAvg: section averages on the raw 1..5 scale.
//   - DassDepression / DassAnxiety / DassStress: raw 1..5 daily answers,
//     kept unrescaled so weekly totals can be recomputed from rows.
//   - Notes: optional free-text note attached to the submission.
type MoodEntry struct {
	ID             string         `json:"id"              gorm:"type:char(36);primaryKey"`
	UserID         string         `json:"user_id"         gorm:"type:varchar(64);not null;index:idx_user_moods,priority:1"`
	EntryDate      string         `json:"entry_date"      gorm:"type:char(10);not null;index:idx_user_moods,priority:2"`
	RotatingDomain string         `json:"rotating_domain" gorm:"type:varchar(64);not null"`
	Mood           int            `json:"mood"            gorm:"not null;check:mood BETWEEN 1 AND 5"`
	Energy         int            `json:"energy"          gorm:"not null;check:energy BETWEEN 1 AND 5"`
	Sleep          int            `json:"sleep"           gorm:"not null;check:sleep BETWEEN 1 AND 5"`
	Stress         int            `json:"stress"          gorm:"not null;check:stress BETWEEN 1 AND 5"`
	RotatingScores []int          `json:"rotating_scores" gorm:"serializer:json;type:text;not null"`
	HighPoint      string         `json:"high_point"      gorm:"type:varchar(8);not null"`
	LowPoint       string         `json:"low_point"       gorm:"type:varchar(8);not null"`
	CoreAvg        float64        `json:"core_avg"        gorm:"not null"`
	RotatingAvg    float64        `json:"rotating_avg"    gorm:"not null"`
	DassDepression int            `json:"dass_depression" gorm:"not null;check:dass_depression BETWEEN 1 AND 5"`
	DassAnxiety    int            `json:"dass_anxiety"    gorm:"not null;check:dass_anxiety BETWEEN 1 AND 5"`
	DassStress     int            `json:"dass_stress"     gorm:"not null;check:dass_stress BETWEEN 1 AND 5"`
	Notes          string         `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-"               gorm:"index"`
}

// TableName returns the database table name for MoodEntry.
func (MoodEntry) TableName() string { return "mood_entries" }

// WeeklyDassTotals is one aggregated seven-day DASS block. The composite
// unique index on (user_id, week_start, week_end) makes concurrent
// aggregation of the same block a no-op: the second insert fails as a
// duplicate and is skipped.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID / WeekStart / WeekEnd: identity of the block (ISO dates).
//   - Depression / Anxiety / Stress: DASS-21 style subscale totals,
//     sum of the seven rescaled daily answers multiplied by two.
type WeeklyDassTotals struct {
	ID         string         `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID     string         `json:"user_id"    gorm:"type:varchar(64);not null;index;uniqueIndex:ux_weekly_user_window,priority:1"`
	WeekStart  string         `json:"week_start" gorm:"type:char(10);not null;uniqueIndex:ux_weekly_user_window,priority:2"`
	WeekEnd    string         `json:"week_end"   gorm:"type:char(10);not null;uniqueIndex:ux_weekly_user_window,priority:3"`
	Depression int            `json:"depression" gorm:"not null"`
	Anxiety    int            `json:"anxiety"    gorm:"not null"`
	Stress     int            `json:"stress"     gorm:"not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for WeeklyDassTotals.
func (WeeklyDassTotals) TableName() string { return "weekly_dass_totals" }

// CrisisResourceCache holds one generated regional crisis-contact list,
// keyed by the normalized country name. Payload is the JSON-encoded
// contact slice as served to clients.
type CrisisResourceCache struct {
	CountryKey string    `json:"country_key" gorm:"type:varchar(64);primaryKey"`
	Country    string    `json:"country"     gorm:"type:varchar(128);not null"`
	Payload    string    `json:"-"           gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the database table name for CrisisResourceCache.
func (CrisisResourceCache) TableName() string { return "crisis_resource_cache" }

// SessionArchive is the durable record left behind when a conversation
// is summarized and its live session destroyed. Only the generated
// title and summary survive; the raw transcript is discarded with the
// session.
type SessionArchive struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"    gorm:"type:varchar(64);not null;index:idx_user_archives"`
	SessionID string         `json:"session_id" gorm:"type:char(36);not null;index"`
	Title     string         `json:"title"      gorm:"type:varchar(255);not null"`
	Summary   string         `json:"summary"    gorm:"type:text;not null"`
	Turns     int            `json:"turns"      gorm:"not null"`
	StartedAt time.Time      `json:"started_at"`
	EndedAt   time.Time      `json:"ended_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for SessionArchive.
func (SessionArchive) TableName() string { return "session_archives" }
