// Package middleware – BearerAuth
//
// This file implements bearer-token authentication for the API. Tokens are
// HMAC-signed JWTs (HS256) carrying the user identity in the "sub" claim
// (with "user_id" accepted as a legacy alias). A valid token sets "userID" on
// the Gin context, which the handlers and the rate limiter key on.
//
// Operation modes:
//   - Required (default): requests without a valid token are rejected with
//     401 before reaching any handler.
//   - Optional: requests without an Authorization header pass through
//     unauthenticated and handlers fall back to their demo identity
//     resolution. A header that IS present must still carry a valid token.
//
// The optional mode exists for local development and demos; production
// deployments run with required auth and a strong JWT_SECRET.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const bearerPrefix = "Bearer "

// BearerAuth returns a Gin middleware that validates Authorization bearer
// tokens signed with secret. When optional is true, requests without an
// Authorization header are admitted unauthenticated.
func BearerAuth(secret string, optional bool) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		auth := strings.TrimSpace(c.GetHeader("Authorization"))
		if auth == "" {
			if optional {
				c.Next()
				return
			}
			unauthorized(c, "missing bearer token")
			return
		}
		if !strings.HasPrefix(auth, bearerPrefix) {
			unauthorized(c, "authorization header is not a bearer token")
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, bearerPrefix), claims,
			func(t *jwt.Token) (any, error) { return key, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		)
		if err != nil || !token.Valid {
			log.Ctx(c.Request.Context()).Warn().Err(err).Msg("bearer token rejected")
			unauthorized(c, "invalid or expired token")
			return
		}

		uid := subjectClaim(claims)
		if uid == "" {
			unauthorized(c, "token carries no subject")
			return
		}

		c.Set("userID", uid)
		c.Next()
	}
}

// subjectClaim extracts the user identity from the claim set.
func subjectClaim(claims jwt.MapClaims) string {
	if s, ok := claims["sub"].(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	if s, ok := claims["user_id"].(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return ""
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get("X-Request-ID"),
		"code":       "unauthorized",
		"message":    msg,
	})
}
