// Package middleware holds the HTTP middleware shared by the API surface.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// JWTValidator validates bearer tokens for API callers.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims carries the identity the API cares about.
type JWTClaims struct {
	ClientID string
	Subject  string
}

type contextKeyClientID struct{}
type contextKeySubject struct{}

// GetClientID retrieves the authenticated client id from the context.
func GetClientID(ctx context.Context) string {
	clientID, _ := ctx.Value(contextKeyClientID{}).(string)
	return clientID
}

// GetSubject retrieves the authenticated subject from the context.
func GetSubject(ctx context.Context) string {
	subject, _ := ctx.Value(contextKeySubject{}).(string)
	return subject
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller identity on the context for handlers.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logUnauthorized(ctx, logger, "missing token", nil)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logUnauthorized(ctx, logger, "invalid token", err)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx = context.WithValue(ctx, contextKeyClientID{}, claims.ClientID)
			ctx = context.WithValue(ctx, contextKeySubject{}, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func logUnauthorized(ctx context.Context, logger *slog.Logger, reason string, err error) {
	if logger == nil {
		return
	}
	logger.WarnContext(ctx, "unauthorized access",
		"reason", reason,
		"error", err,
		"request_id", GetRequestID(ctx),
	)
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
