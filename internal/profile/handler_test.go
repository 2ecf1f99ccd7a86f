package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/devlink/service-social-go/internal/middleware"
	"github.com/devlink/service-social-go/internal/profile/entity"
)

type stubRepos struct {
	raw json.RawMessage
	err error
}

func (s stubRepos) Repos(context.Context, string) (json.RawMessage, error) {
	return s.raw, s.err
}

func newHandler(github RepoLister) *Handler {
	svc := NewService(nil, newFakeProfileRepo(), nil, nil)
	return NewHandler(svc, github, zap.NewNop().Sugar())
}

func doAs(h http.HandlerFunc, userID int64, method, target, body string, vars map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestUpsertHandler_SkillsString(t *testing.T) {
	t.Parallel()

	h := newHandler(stubRepos{})
	rec := doAs(h.Upsert, 1, http.MethodPost, "/api/profile",
		`{"status":"dev","skills":"a, b"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var p struct {
		Status string   `json:"status"`
		Skills []string `json:"skills"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "dev", p.Status)
	assert.Equal(t, []string{"a", "b"}, p.Skills)
}

func TestUpsertHandler_Validation(t *testing.T) {
	t.Parallel()

	h := newHandler(stubRepos{})
	rec := doAs(h.Upsert, 1, http.MethodPost, "/api/profile", `{}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Status cannot be empty")
	assert.Contains(t, rec.Body.String(), "Skills cannot be empty")
}

func TestByUserHandler_NotFound(t *testing.T) {
	t.Parallel()

	h := newHandler(stubRepos{})
	rec := doAs(h.ByUser, 0, http.MethodGet, "/api/profile/user/9", "",
		map[string]string{"user_id": "9"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"msg":"Profile not found"}`, rec.Body.String())
}

func TestRemoveExperienceHandler_UnknownID(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, newFakeProfileRepo(), nil, nil)
	h := NewHandler(svc, stubRepos{}, zap.NewNop().Sugar())

	_, err := svc.Upsert(context.Background(), 1, &entity.Patch{Status: strptr("dev"), Skills: []string{"go"}})
	require.NoError(t, err)

	rec := doAs(h.RemoveExperience, 1, http.MethodDelete, "/api/profile/experience/nope", "",
		map[string]string{"exp_id": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"msg":"Experience not found"}`, rec.Body.String())
}

func TestGithubHandler(t *testing.T) {
	t.Parallel()

	h := newHandler(stubRepos{raw: json.RawMessage(`[{"name":"r"}]`)})
	rec := doAs(h.Github, 0, http.MethodGet, "/api/profile/github/octocat", "",
		map[string]string{"username": "octocat"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"r"}]`, rec.Body.String())
}

func TestGithubHandler_UniformFailure(t *testing.T) {
	t.Parallel()

	h := newHandler(stubRepos{err: errors.New("rate limited")})
	rec := doAs(h.Github, 0, http.MethodGet, "/api/profile/github/octocat", "",
		map[string]string{"username": "octocat"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"msg":"No Github profile found"}`, rec.Body.String())
}
