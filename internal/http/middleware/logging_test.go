package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// captureLogger swaps the global zerolog logger for one writing JSON lines
// into a buffer and restores it on cleanup.
func captureLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)
	return &buf
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/rid", func(c *gin.Context) {
		if v, ok := c.Get(requestIDKey); !ok || v == "" {
			t.Fatalf("request ID missing from context")
		}
		c.Status(http.StatusNoContent)
	})

	// Without an incoming header a fresh ID is minted.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rid", nil))
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated %s header", requestIDHeader)
	}

	// An incoming ID is reused regardless of header casing.
	for _, hdr := range []string{requestIDHeader, strings.ToLower(requestIDHeader)} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/rid", nil)
		req.Header.Set(hdr, "corr-42")
		r.ServeHTTP(w, req)
		if got := w.Header().Get(requestIDHeader); got != "corr-42" {
			t.Fatalf("header %q: response ID = %q; want corr-42", hdr, got)
		}
	}
}

func TestLogger_LevelByOutcome(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), Logger())
	r.GET("/fine", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/broken", func(c *gin.Context) {
		_ = c.Error(errors.New("store unavailable"))
		c.Status(http.StatusBadRequest)
	})

	for _, target := range []string{"/fine", "/unrouted", "/broken"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	}

	logs := buf.String()
	if !strings.Contains(logs, `"level":"info"`) || !strings.Contains(logs, `"path":"/fine"`) {
		t.Fatalf("2xx should log at info with the route path:\n%s", logs)
	}
	// 404 has no matched route, the raw URL path is logged at warn.
	if !strings.Contains(logs, `"level":"warn"`) || !strings.Contains(logs, `"path":"/unrouted"`) {
		t.Fatalf("4xx should log at warn with the raw path:\n%s", logs)
	}
	// Collected Gin errors promote the line to error even for a 4xx status.
	if !strings.Contains(logs, `"level":"error"`) || !strings.Contains(logs, "store unavailable") {
		t.Fatalf("gin errors should log at error:\n%s", logs)
	}
}

func TestRecovery_PanicBecomesJSON500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), Logger(), Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want 500", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	if body["code"] != "internal_error" || body["message"] != "internal server error" {
		t.Fatalf("unexpected envelope: %v", body)
	}
	if body["request_id"] == "" {
		t.Fatalf("envelope lost the request ID: %v", body)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("expected panic log, got:\n%s", buf.String())
	}
}

func TestRecovery_PanicAfterWriteSkipsBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), Logger(), Recovery())
	r.GET("/late", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("after write")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/late", nil))

	// The partial body cannot be replaced, so no JSON envelope is appended.
	if strings.Contains(w.Body.String(), "internal_error") {
		t.Fatalf("unexpected JSON envelope after partial write: %q", w.Body.String())
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("expected panic log, got:\n%s", buf.String())
	}
}

func TestLoggerFrom_RequestScopedAndFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Without Logger() the fallback has no request fields.
	buf := captureLogger(t)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("bare")
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if !strings.Contains(buf.String(), `"message":"bare"`) || strings.Contains(buf.String(), `"request_id"`) {
		t.Fatalf("fallback logger output wrong:\n%s", buf.String())
	}

	// With Logger() the request-scoped fields come along.
	buf2 := captureLogger(t)
	r2 := gin.New()
	r2.Use(RequestID(), Logger())
	r2.GET("/x", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("scoped")
		c.Status(http.StatusOK)
	})
	w2 := httptest.NewRecorder()
	r2.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/x", nil))
	if !strings.Contains(buf2.String(), `"message":"scoped"`) || !strings.Contains(buf2.String(), `"request_id"`) {
		t.Fatalf("request-scoped logger output wrong:\n%s", buf2.String())
	}
}

func Test_asString_truncate(t *testing.T) {
	if asString("id-1") != "id-1" || asString(42) != "" || asString(nil) != "" {
		t.Fatalf("asString misbehaved")
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate no-op = %q", got)
	}
	if got := truncate("abcdefgh", 5); got != "abcde…" {
		t.Fatalf("truncate = %q; want abcde…", got)
	}
	if got := truncate("abc", 0); got != "abc" {
		t.Fatalf("truncate with max 0 = %q; want abc", got)
	}
}
