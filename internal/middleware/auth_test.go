package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devlink/service-social-go/internal/token"
)

func gateThrough(t *testing.T, tokens *token.Service, header string) (*httptest.ResponseRecorder, bool, int64) {
	t.Helper()

	called := false
	var gotID int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotID = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
	if header != "" {
		req.Header.Set(TokenHeader, header)
	}
	rec := httptest.NewRecorder()
	AuthGate(tokens)(next).ServeHTTP(rec, req)
	return rec, called, gotID
}

func TestAuthGate_MissingToken(t *testing.T) {
	t.Parallel()

	rec, called, _ := gateThrough(t, token.NewService("s"), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"msg":"No token, Authorization denied"}`, rec.Body.String())
	assert.False(t, called, "handler chain must halt without a token")
}

func TestAuthGate_InvalidToken(t *testing.T) {
	t.Parallel()

	rec, called, _ := gateThrough(t, token.NewService("s"), "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"msg":"Token is Invalid"}`, rec.Body.String())
	assert.False(t, called)
}

func TestAuthGate_ValidToken(t *testing.T) {
	t.Parallel()

	tokens := token.NewService("s")
	tok, err := tokens.Issue(99)
	require.NoError(t, err)

	rec, called, gotID := gateThrough(t, tokens, tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.Equal(t, int64(99), gotID)
}
