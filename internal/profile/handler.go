package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/devlink/service-social-go/internal/httpx"
	"github.com/devlink/service-social-go/internal/middleware"
	"github.com/devlink/service-social-go/internal/profile/entity"
	"github.com/devlink/service-social-go/internal/validate"
)

// RepoLister is the outbound GitHub surface; *github.Client satisfies it.
type RepoLister interface {
	Repos(ctx context.Context, username string) (json.RawMessage, error)
}

// Handler exposes the profile endpoints.
type Handler struct {
	svc    *Service
	github RepoLister
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, github RepoLister, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, github: github, logger: logger}
}

var upsertRules = []validate.Rule{
	{Field: "status", Message: "Status cannot be empty", Check: validate.NotEmpty},
	{Field: "skills", Message: "Skills cannot be empty", Check: validate.NotEmpty},
}

var experienceRules = []validate.Rule{
	{Field: "title", Message: "Title is required", Check: validate.NotEmpty},
	{Field: "company", Message: "Company is required", Check: validate.NotEmpty},
	{Field: "from", Message: "From is required", Check: validate.NotEmpty},
}

var educationRules = []validate.Rule{
	{Field: "school", Message: "School is required", Check: validate.NotEmpty},
	{Field: "degree", Message: "Degree is required", Check: validate.NotEmpty},
	{Field: "fieldofstudy", Message: "Field of Study is required", Check: validate.NotEmpty},
	{Field: "from", Message: "From is required", Check: validate.NotEmpty},
}

type upsertRequest struct {
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	Status         *string `json:"status"`
	GithubUsername *string `json:"githubusername"`
	Youtube        *string `json:"youtube"`
	Twitter        *string `json:"twitter"`
	Facebook       *string `json:"facebook"`
	Linkedin       *string `json:"linkedin"`
	Instagram      *string `json:"instagram"`
}

func (req *upsertRequest) patch(skills []string) *entity.Patch {
	p := &entity.Patch{
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		Status:         req.Status,
		GithubUsername: req.GithubUsername,
		Skills:         skills,
	}
	if req.Youtube != nil || req.Twitter != nil || req.Facebook != nil ||
		req.Linkedin != nil || req.Instagram != nil {
		social := entity.Social{}
		if req.Youtube != nil {
			social.Youtube = *req.Youtube
		}
		if req.Twitter != nil {
			social.Twitter = *req.Twitter
		}
		if req.Facebook != nil {
			social.Facebook = *req.Facebook
		}
		if req.Linkedin != nil {
			social.Linkedin = *req.Linkedin
		}
		if req.Instagram != nil {
			social.Instagram = *req.Instagram
		}
		p.Social = &social
	}
	return p
}

// Upsert handles POST /api/profile (private): create-if-absent, else
// sparse partial update.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	body, err := httpx.Decode(r, &req)
	if err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validate.Apply(body, upsertRules); len(errs) > 0 {
		httpx.ValidationFailed(w, errs)
		return
	}

	patch := req.patch(NormalizeSkills(body["skills"]))
	p, err := h.svc.Upsert(r.Context(), middleware.UserID(r.Context()), patch)
	if err != nil {
		h.logger.Errorw("profile upsert failed", "err", err)
		httpx.ServerError(w)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Me handles GET /api/profile/me (private).
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Msg(w, http.StatusNotFound, "There is no profile for this user")
			return
		}
		h.logger.Errorw("profile lookup failed", "err", err)
		httpx.ServerError(w)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// List handles GET /api/profile (public).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Errorw("profile list failed", "err", err)
		httpx.ServerError(w)
		return
	}
	httpx.JSON(w, http.StatusOK, profiles)
}

// ByUser handles GET /api/profile/user/{user_id} (public).
func (h *Handler) ByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["user_id"], 10, 64)
	if err != nil {
		httpx.Msg(w, http.StatusNotFound, "Profile not found")
		return
	}
	p, err := h.svc.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Msg(w, http.StatusNotFound, "Profile not found")
			return
		}
		h.logger.Errorw("profile lookup failed", "err", err)
		httpx.ServerError(w)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// DeleteAccount handles DELETE /api/profile (private): posts, profile,
// user, in that order.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAccount(r.Context(), middleware.UserID(r.Context())); err != nil {
		h.logger.Errorw("account delete failed", "err", err)
		httpx.ServerError(w)
		return
	}
	httpx.Msg(w, http.StatusOK, "User and Profile successfully deleted")
}

type experienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// AddExperience handles PUT /api/profile/experience (private).
func (h *Handler) AddExperience(w http.ResponseWriter, r *http.Request) {
	var req experienceRequest
	body, err := httpx.Decode(r, &req)
	if err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validate.Apply(body, experienceRules); len(errs) > 0 {
		httpx.ValidationFailed(w, errs)
		return
	}

	exp := entity.Experience{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	}
	p, err := h.svc.AddExperience(r.Context(), middleware.UserID(r.Context()), exp)
	if err != nil {
		h.respondProfileErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// RemoveExperience handles DELETE /api/profile/experience/{exp_id} (private).
func (h *Handler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.RemoveExperience(r.Context(), middleware.UserID(r.Context()), mux.Vars(r)["exp_id"])
	if err != nil {
		if errors.Is(err, ErrExperienceNotFound) {
			httpx.Msg(w, http.StatusNotFound, "Experience not found")
			return
		}
		h.respondProfileErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

type educationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// AddEducation handles PUT /api/profile/education (private).
func (h *Handler) AddEducation(w http.ResponseWriter, r *http.Request) {
	var req educationRequest
	body, err := httpx.Decode(r, &req)
	if err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validate.Apply(body, educationRules); len(errs) > 0 {
		httpx.ValidationFailed(w, errs)
		return
	}

	edu := entity.Education{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	}
	p, err := h.svc.AddEducation(r.Context(), middleware.UserID(r.Context()), edu)
	if err != nil {
		h.respondProfileErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// RemoveEducation handles DELETE /api/profile/education/{edu_id} (private).
func (h *Handler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.RemoveEducation(r.Context(), middleware.UserID(r.Context()), mux.Vars(r)["edu_id"])
	if err != nil {
		if errors.Is(err, ErrEducationNotFound) {
			httpx.Msg(w, http.StatusNotFound, "Education not found")
			return
		}
		h.respondProfileErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Github handles GET /api/profile/github/{username} (public). Every
// upstream failure collapses to the same 404.
func (h *Handler) Github(w http.ResponseWriter, r *http.Request) {
	repos, err := h.github.Repos(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		h.logger.Debugw("github lookup failed", "err", err)
		httpx.Msg(w, http.StatusNotFound, "No Github profile found")
		return
	}
	httpx.JSON(w, http.StatusOK, repos)
}

func (h *Handler) respondProfileErr(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.Msg(w, http.StatusNotFound, "There is no profile for this user")
		return
	}
	h.logger.Errorw("profile mutation failed", "err", err)
	httpx.ServerError(w)
}
