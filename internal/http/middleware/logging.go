// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file covers the request lifecycle plumbing every route shares:
//
//   - RequestID() gives each request a correlation ID, reusing an incoming
//     X-Request-ID when the client sent one.
//   - Logger() emits one structured access log line per request and attaches a
//     request-scoped zerolog.Logger to the Gin context so handlers can enrich
//     it (e.g. lg.Info().Str("session_id", id).Msg("session archived")).
//   - Recovery() turns panics into the standard JSON 500 envelope without
//     losing the correlation ID.
//   - LoggerFrom() fetches the request-scoped logger for downstream code.
//
// Order matters: RequestID first, then Logger (or RedactingLogger), then
// Recovery, so panics are logged with full request context. The request-scoped
// logger lives under the "logger" Gin context key and the correlation ID under
// "requestID".
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// requestIDKey is the Gin context key holding the correlation ID.
	requestIDKey = "requestID"
	// requestIDHeader propagates the correlation ID to and from clients.
	requestIDHeader = "X-Request-ID"
	// maxQueryLogLength caps logged query strings; anything longer is noise.
	maxQueryLogLength = 2048
)

// RequestID attaches a correlation identifier to every request.
//
// An incoming X-Request-ID header is reused verbatim; otherwise a fresh
// UUIDv4 is generated. The ID is echoed on the response header and stored in
// the Gin context so error envelopes and logs can carry it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// Logger writes one structured access log line per request.
//
// Fields cover method, route path (raw URL on 404), client IP, user agent,
// referer, truncated query, request/response sizes, status, and latency. The
// user_id field is filled when auth middleware has resolved one. Log level
// tracks the outcome: error for 5xx or collected Gin errors, warn for 4xx,
// info otherwise.
//
// The middleware also stores a request-scoped zerolog.Logger under the
// "logger" context key. Place after RequestID so the line carries the
// correlation ID.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid, _ := c.Get(requestIDKey)
		uid, _ := c.Get("userID")
		path := c.FullPath()
		if path == "" {
			// No matched route.
			path = c.Request.URL.Path
		}

		l := log.With().
			Str("request_id", asString(rid)).
			Str("user_id", asString(uid)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("remote_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Str("referer", c.Request.Referer()).
			Str("query", truncate(c.Request.URL.RawQuery, maxQueryLogLength)).
			Int64("bytes_in", c.Request.ContentLength). // -1 when unknown
			Logger()

		c.Set("logger", &l)

		c.Next()

		ev := l.With().
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Int("bytes_out", c.Writer.Size()).
			Logger()

		switch status := c.Writer.Status(); {
		case len(c.Errors) > 0:
			ev.Error().Str("errors", c.Errors.String()).Msg("request")
		case status >= 500:
			ev.Error().Msg("request")
		case status >= 400:
			ev.Warn().Msg("request")
		default:
			ev.Info().Msg("request")
		}
	}
}

// Recovery intercepts panics, logs the stack, and answers with the standard
// JSON 500 envelope:
//
//	{ "request_id": "...", "code": "internal_error", "message": "internal server error" }
//
// When the handler already wrote part of a response the body cannot be
// replaced, so only the status is forced to 500. Place after Logger so the
// panic log carries the request context.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				rid, _ := c.Get(requestIDKey)
				log.Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("request_id", asString(rid)).
					Msg("panic recovered")

				if !c.Writer.Written() {
					c.Header("Content-Type", "application/json")
					c.Header(requestIDHeader, asString(rid))
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"request_id": asString(rid),
						"code":       "internal_error",
						"message":    "internal server error",
					})
					return
				}
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped zerolog.Logger attached by Logger or
// RedactingLogger. Falls back to the global logger when none was attached, so
// callers never need a nil check.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get("logger"); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// asString unwraps a context value as a string, empty when absent or not a
// string.
func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// truncate clips s to max bytes and appends an ellipsis. max <= 0 disables
// truncation. Byte-level clipping can split a rune, which is fine for logs.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
