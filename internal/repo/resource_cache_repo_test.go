package repo

import (
	"context"
	"testing"

	"github.com/stressease/go-backend/internal/domain"
)

func TestResourceCache_MissThenHit(t *testing.T) {
	db := newRepoDB(t, &domain.CrisisResourceCache{})
	ctx := context.Background()

	if _, err := GetResourceCache(ctx, db, "india"); err != ErrNotFound {
		t.Fatalf("miss: err = %v, want ErrNotFound", err)
	}

	payload := `[{"id":"aasra","type":"crisis_hotline","name":"AASRA"}]`
	if err := PutResourceCache(ctx, db, "india", "India", payload); err != nil {
		t.Fatalf("PutResourceCache: %v", err)
	}

	got, err := GetResourceCache(ctx, db, "india")
	if err != nil {
		t.Fatalf("hit: %v", err)
	}
	if got.Country != "India" || got.Payload != payload {
		t.Fatalf("unexpected cache row: %+v", got)
	}
}

func TestResourceCache_PutIsUpsert(t *testing.T) {
	db := newRepoDB(t, &domain.CrisisResourceCache{})
	ctx := context.Background()

	if err := PutResourceCache(ctx, db, "india", "India", `["old"]`); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if err := PutResourceCache(ctx, db, "india", "India", `["new"]`); err != nil {
		t.Fatalf("second put: %v", err)
	}

	got, err := GetResourceCache(ctx, db, "india")
	if err != nil || got.Payload != `["new"]` {
		t.Fatalf("after upsert: %+v, %v", got, err)
	}

	var n int64
	if err := db.Model(&domain.CrisisResourceCache{}).Count(&n).Error; err != nil || n != 1 {
		t.Fatalf("row count after upsert = %d, %v; want 1", n, err)
	}
}
