// Package services – ResourceService
//
// This file implements ResourceService, which serves crisis-support contacts.
// The static catalog path is pure and always available: the conversation
// state machine and the crisis-resources endpoint depend on it exclusively.
// The regional path is a clearly separated cache-aside lookup: check the
// document store by normalized country key, on a miss ask the generative
// collaborator, validate the shape, persist, return. A cache write failure
// degrades to serving the generated list uncached.

package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/stressease/go-backend/internal/llm"
	"github.com/stressease/go-backend/internal/repo"
	"github.com/stressease/go-backend/internal/safety"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultCountry is used when a regional lookup names no country.
const DefaultCountry = "India"

// ResourceService serves the static crisis-contact catalog and the cached
// AI-generated regional lists.
type ResourceService struct {
	DB  *gorm.DB
	Gen llm.Generator

	// GenTimeout bounds the regional generation call; zero means 15s.
	GenTimeout time.Duration
}

// Catalog returns the fixed, ordered contact catalog.
func (s *ResourceService) Catalog() []safety.Contact {
	return safety.Catalog()
}

// Regional returns crisis contacts for a country, serving from the cache when
// possible. A lookup that produces nothing usable is ErrResourcesUnavailable.
func (s *ResourceService) Regional(ctx context.Context, country string) ([]safety.Contact, error) {
	tr := otel.Tracer("services/ResourceService")
	ctx, span := tr.Start(ctx, "Regional",
		trace.WithAttributes(attribute.String("country", country)),
	)
	defer span.End()

	country = displayCountry(country)
	if country == "" {
		country = DefaultCountry
	}
	key := normalizeCountry(country)

	if cached, err := repo.GetResourceCache(ctx, s.DB, key); err == nil {
		var contacts []safety.Contact
		if jerr := json.Unmarshal([]byte(cached.Payload), &contacts); jerr == nil && len(contacts) > 0 {
			return contacts, nil
		}
		// A corrupt payload falls through to regeneration.
		log.Ctx(ctx).Warn().Str("country_key", key).Msg("regional resource cache entry unreadable, regenerating")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	gctx, cancel := context.WithTimeout(ctx, s.genTimeout())
	defer cancel()
	contacts, err := s.Gen.RegionalResources(gctx, country)
	if err != nil || len(contacts) == 0 {
		log.Ctx(ctx).Warn().Err(err).Str("country", country).Msg("regional resource lookup failed")
		return nil, ErrResourcesUnavailable
	}

	if payload, jerr := json.Marshal(contacts); jerr == nil {
		if werr := repo.PutResourceCache(ctx, s.DB, key, country, string(payload)); werr != nil {
			log.Ctx(ctx).Warn().Err(werr).Str("country_key", key).Msg("regional resource cache write failed")
		}
	}
	return contacts, nil
}

// displayCountry canonicalizes a user-supplied country name for storage and
// generation: whitespace collapsed, English title casing. Caser instances are
// stateful, so one is built per call.
func displayCountry(country string) string {
	joined := strings.Join(strings.Fields(country), " ")
	return cases.Title(language.English).String(joined)
}

// normalizeCountry derives the cache key: lower-cased with whitespace
// collapsed to single hyphens.
func normalizeCountry(country string) string {
	fields := strings.Fields(strings.ToLower(country))
	return strings.Join(fields, "-")
}

func (s *ResourceService) genTimeout() time.Duration {
	if s.GenTimeout > 0 {
		return s.GenTimeout
	}
	return 15 * time.Second
}
