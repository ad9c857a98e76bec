// Package middleware wires request-scoped user context and CORS around the
// demo service's net/http handlers, grounded on the teacher's own
// middleware pair.
package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ilkerispir/jsonapi-codec/internal/auth"
)

// ──────────────────────────────────────────────────
// Auth context keys
// ──────────────────────────────────────────────────

type contextKey string

const (
	ContextKeyUser contextKey = "user"
)

// UserInfo is the authenticated caller extracted from a validated token.
type UserInfo struct {
	Subject string
	Issuer  string
	Expiry  int64
}

// IsInternal returns true if this is an internal service token.
func (u *UserInfo) IsInternal() bool {
	return u.Issuer == "jsonapi-codec-internal"
}

// IsPAT returns true if this is a personal access token.
func (u *UserInfo) IsPAT() bool {
	return u.Issuer == "jsonapi-codec-pat"
}

// GetUser extracts UserInfo from the request context.
func GetUser(ctx context.Context) *UserInfo {
	user, _ := ctx.Value(ContextKeyUser).(*UserInfo)
	return user
}

// ──────────────────────────────────────────────────
// Auth middleware configuration
// ──────────────────────────────────────────────────

// AuthConfig holds auth middleware configuration.
type AuthConfig struct {
	// HMAC secret for PAT tokens (base64url-encoded)
	PatSecret string
	// HMAC secret for internal tokens (base64url-encoded)
	InternalSecret string
	// UI URL for CORS
	UIURL string
}

// ──────────────────────────────────────────────────
// Public path matching
// ──────────────────────────────────────────────────

var publicPaths = []string{
	"/health",
	"/actuator/health",
	"/actuator/health/readiness",
	"/actuator/health/liveness",
}

func isPublicPath(path string, method string) bool {
	if method == http.MethodOptions {
		return true
	}
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

// ──────────────────────────────────────────────────
// Auth Middleware
// ──────────────────────────────────────────────────

// AuthMiddleware validates bearer tokens and sets UserInfo in context.
func AuthMiddleware(config AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path, r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"errors":[{"status":"401","title":"Unauthorized","detail":"Missing Authorization header"}]}`, http.StatusUnauthorized)
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader {
				http.Error(w, `{"errors":[{"status":"401","title":"Unauthorized","detail":"Invalid Authorization header format"}]}`, http.StatusUnauthorized)
				return
			}

			claims, err := auth.ValidateToken(token, config.InternalSecret, config.PatSecret)
			if err != nil {
				log.Printf("token validation failed: %v", err)
				http.Error(w, `{"errors":[{"status":"401","title":"Unauthorized","detail":"Invalid token"}]}`, http.StatusUnauthorized)
				return
			}

			user := &UserInfo{
				Subject: claimString(claims, "sub"),
				Issuer:  claimString(claims, "iss"),
				Expiry:  claimInt64(claims, "exp"),
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func claimString(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

func claimInt64(claims jwt.MapClaims, key string) int64 {
	switch v := claims[key].(type) {
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// ──────────────────────────────────────────────────
// CORS Middleware
// ──────────────────────────────────────────────────

// CORSMiddleware adds CORS headers for the configured UI origin(s).
func CORSMiddleware(uiURL string) func(http.Handler) http.Handler {
	origins := strings.Split(uiURL, ",")
	log.Printf("CORS: configured allowed origins: %v (raw UIURL=%q)", origins, uiURL)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := false
			for _, o := range origins {
				if strings.TrimSpace(o) == origin {
					allowed = true
					break
				}
			}

			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Headers", "Access-Control-Allow-Headers,Access-Control-Allow-Origin,Access-Control-Request-Method,Access-Control-Request-Headers,Origin,Cache-Control,Content-Type,Accept,Authorization")
				w.Header().Set("Access-Control-Allow-Methods", "DELETE,GET,POST,PATCH,PUT,OPTIONS")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
