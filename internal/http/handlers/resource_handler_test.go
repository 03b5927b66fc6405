package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stressease/go-backend/internal/safety"
	"github.com/stressease/go-backend/internal/services"
)

func TestGetCrisisResources_Catalog(t *testing.T) {
	res := &fakeResSvc{catalog: safety.Catalog()}
	r := newHandlerRouter(New(&fakeConvSvc{}, &fakeMoodSvc{}, res))

	w := doJSON(t, r, http.MethodGet, "/crisis-resources", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var resp CrisisResourcesResponse
	decodeJSON(t, w, &resp)
	if len(resp.Resources) == 0 {
		t.Fatalf("expected a non-empty catalog")
	}
	if resp.Country != "" {
		t.Fatalf("catalog response should not echo a country, got %q", resp.Country)
	}
}

func TestGetRegionalCrisisResources_EchoesCountry(t *testing.T) {
	res := &fakeResSvc{regional: []safety.Contact{
		{ID: "uk-hotline", Type: safety.ContactHotline, Name: "Samaritans", Number: "116 123", Country: "United Kingdom"},
	}}
	r := newHandlerRouter(New(&fakeConvSvc{}, &fakeMoodSvc{}, res))

	w := doJSON(t, r, http.MethodGet, "/crisis-resources/regional?country=United+Kingdom", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp CrisisResourcesResponse
	decodeJSON(t, w, &resp)
	if resp.Country != "United Kingdom" {
		t.Fatalf("country = %q", resp.Country)
	}
	if len(resp.Resources) != 1 || resp.Resources[0].Name != "Samaritans" {
		t.Fatalf("resources = %+v", resp.Resources)
	}
	if res.gotCountry != "United Kingdom" {
		t.Fatalf("service saw %q", res.gotCountry)
	}
}

func TestGetRegionalCrisisResources_DefaultCountry(t *testing.T) {
	res := &fakeResSvc{regional: []safety.Contact{{ID: "x"}}}
	r := newHandlerRouter(New(&fakeConvSvc{}, &fakeMoodSvc{}, res))

	w := doJSON(t, r, http.MethodGet, "/crisis-resources/regional", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if res.gotCountry != services.DefaultCountry {
		t.Fatalf("default country = %q, want %q", res.gotCountry, services.DefaultCountry)
	}
}

func TestGetRegionalCrisisResources_Errors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unavailable", services.ErrResourcesUnavailable, http.StatusNotFound, ErrCodeResourcesUnavailable},
		{"generic", context.Canceled, http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newHandlerRouter(New(&fakeConvSvc{}, &fakeMoodSvc{}, &fakeResSvc{regErr: tc.err}))
			w := doJSON(t, r, http.MethodGet, "/crisis-resources/regional?country=Nowhere", "", nil)
			if w.Code != tc.wantStatus {
				t.Fatalf("status=%d want %d", w.Code, tc.wantStatus)
			}
			var er ErrorResponse
			decodeJSON(t, w, &er)
			if er.Code != tc.wantCode {
				t.Fatalf("code=%q want %q", er.Code, tc.wantCode)
			}
		})
	}
}
