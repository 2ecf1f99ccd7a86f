package middleware

import (
	"context"
	"net/http"

	"github.com/devlink/service-social-go/internal/httpx"
	"github.com/devlink/service-social-go/internal/token"
)

// TokenHeader is the request header private routes read the identity
// token from.
const TokenHeader = "x-auth-token"

type contextKey struct{}

var userIDKey contextKey

// UserID returns the authenticated user id injected by AuthGate, or 0
// when the request never passed through it.
func UserID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

// WithUserID returns a context carrying the given identity. Exported
// for handler tests that bypass the gate.
func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// AuthGate verifies the identity token on every request and injects the
// decoded user id into the request context. Each failure branch writes
// exactly one response and stops the chain.
func AuthGate(tokens *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(TokenHeader)
			if raw == "" {
				httpx.Msg(w, http.StatusUnauthorized, "No token, Authorization denied")
				return
			}
			userID, err := tokens.Verify(raw)
			if err != nil {
				httpx.Msg(w, http.StatusUnauthorized, "Token is Invalid")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
