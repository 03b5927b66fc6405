package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stressease/go-backend/internal/repo"
	"github.com/stressease/go-backend/internal/safety"
)

func regionalContacts() []safety.Contact {
	return []safety.Contact{
		{
			ID:           "samaritans-uk",
			Type:         safety.ContactHotline,
			Name:         "Samaritans",
			Number:       "116 123",
			Availability: "24/7",
			Country:      "United Kingdom",
			Priority:     1,
		},
	}
}

func TestResourceCatalog_IsStaticList(t *testing.T) {
	svc := &ResourceService{DB: newTestDB(t), Gen: &fakeGenerator{}}

	got := svc.Catalog()
	if len(got) == 0 {
		t.Fatalf("catalog must never be empty")
	}
	want := safety.Catalog()
	if len(got) != len(want) || got[0].ID != want[0].ID {
		t.Fatalf("catalog diverged from the static list")
	}
}

func TestResourceRegional_MissGeneratesAndCaches(t *testing.T) {
	gen := &fakeGenerator{regional: regionalContacts()}
	svc := &ResourceService{DB: newTestDB(t), Gen: gen}
	ctx := context.Background()

	got, err := svc.Regional(ctx, "United Kingdom")
	if err != nil {
		t.Fatalf("Regional: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Samaritans" {
		t.Fatalf("unexpected contacts: %+v", got)
	}
	if gen.regionCalls != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.regionCalls)
	}

	cached, err := repo.GetResourceCache(ctx, svc.DB, "united-kingdom")
	if err != nil {
		t.Fatalf("cache row missing after lookup: %v", err)
	}
	if cached.Country != "United Kingdom" {
		t.Fatalf("cached country = %q", cached.Country)
	}
}

func TestResourceRegional_HitSkipsGenerator(t *testing.T) {
	gen := &fakeGenerator{regional: regionalContacts()}
	svc := &ResourceService{DB: newTestDB(t), Gen: gen}
	ctx := context.Background()

	if _, err := svc.Regional(ctx, "United Kingdom"); err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	// Case and spacing differences normalize to the same key.
	got, err := svc.Regional(ctx, "  UNITED   kingdom ")
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if len(got) != 1 || got[0].Number != "116 123" {
		t.Fatalf("unexpected cached contacts: %+v", got)
	}
	if gen.regionCalls != 1 {
		t.Fatalf("generator calls = %d, want 1 (second lookup must hit the cache)", gen.regionCalls)
	}
}

func TestResourceRegional_DefaultsCountry(t *testing.T) {
	gen := &fakeGenerator{regional: regionalContacts()}
	svc := &ResourceService{DB: newTestDB(t), Gen: gen}
	ctx := context.Background()

	if _, err := svc.Regional(ctx, "   "); err != nil {
		t.Fatalf("Regional: %v", err)
	}
	if _, err := repo.GetResourceCache(ctx, svc.DB, "india"); err != nil {
		t.Fatalf("blank country must cache under the default key: %v", err)
	}
}

func TestResourceRegional_GeneratorFailure(t *testing.T) {
	cases := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"upstream error", &fakeGenerator{regionErr: errors.New("quota exceeded")}},
		{"empty result", &fakeGenerator{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &ResourceService{DB: newTestDB(t), Gen: tc.gen}

			_, err := svc.Regional(context.Background(), "Atlantis")
			if !errors.Is(err, ErrResourcesUnavailable) {
				t.Fatalf("err = %v, want ErrResourcesUnavailable", err)
			}
			// Failures are never cached.
			if _, cerr := repo.GetResourceCache(context.Background(), svc.DB, "atlantis"); !errors.Is(cerr, repo.ErrNotFound) {
				t.Fatalf("cache err = %v, want ErrNotFound", cerr)
			}
		})
	}
}

func TestResourceRegional_CorruptCacheRegenerates(t *testing.T) {
	gen := &fakeGenerator{regional: regionalContacts()}
	svc := &ResourceService{DB: newTestDB(t), Gen: gen}
	ctx := context.Background()

	if err := repo.PutResourceCache(ctx, svc.DB, "united-kingdom", "United Kingdom", "{not json"); err != nil {
		t.Fatalf("seed corrupt cache: %v", err)
	}

	got, err := svc.Regional(ctx, "United Kingdom")
	if err != nil || len(got) != 1 {
		t.Fatalf("Regional = %+v, %v; want regenerated contacts", got, err)
	}
	if gen.regionCalls != 1 {
		t.Fatalf("corrupt cache must fall through to the generator")
	}

	cached, err := repo.GetResourceCache(ctx, svc.DB, "united-kingdom")
	if err != nil {
		t.Fatalf("cache read after repair: %v", err)
	}
	if cached.Payload == "{not json" {
		t.Fatalf("cache was not overwritten with the regenerated payload")
	}
}
