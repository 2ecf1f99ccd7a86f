package user

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/devlink/service-social-go/internal/httpx"
	"github.com/devlink/service-social-go/internal/middleware"
	"github.com/devlink/service-social-go/internal/token"
	"github.com/devlink/service-social-go/internal/validate"
)

// Handler exposes the registration and authentication endpoints.
type Handler struct {
	svc    *Service
	tokens *token.Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, tokens *token.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, tokens: tokens, logger: logger}
}

var registerRules = []validate.Rule{
	{Field: "name", Message: "Name is Required", Check: validate.NotEmpty},
	{Field: "email", Message: "Valid Email is Required", Check: validate.Email},
	{Field: "password", Message: "Please Enter a Password with 6 characters or more", Check: validate.MinLength(6)},
}

var loginRules = []validate.Rule{
	{Field: "email", Message: "Valid Email is Required", Check: validate.Email},
	{Field: "password", Message: "Enter a password", Check: validate.Present},
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register handles POST /api/users.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	body, err := httpx.Decode(r, &req)
	if err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validate.Apply(body, registerRules); len(errs) > 0 {
		httpx.ValidationFailed(w, errs)
		return
	}

	u, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			httpx.Conflict(w, "User Already Exists")
			return
		}
		h.logger.Errorw("register failed", "err", err)
		httpx.ServerError(w)
		return
	}

	tok, err := h.tokens.Issue(u.ID)
	if err != nil {
		h.logger.Errorw("token issue failed", "err", err)
		httpx.ServerError(w)
		return
	}
	httpx.JSON(w, http.StatusOK, tokenResponse{Token: tok})
}

// Login handles POST /api/auth.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	body, err := httpx.Decode(r, &req)
	if err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validate.Apply(body, loginRules); len(errs) > 0 {
		httpx.ValidationFailed(w, errs)
		return
	}

	u, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			// identical body for unknown email and wrong password
			httpx.Conflict(w, "Invalid Credentials: Check your username and password again.")
			return
		}
		h.logger.Errorw("login failed", "err", err)
		httpx.ServerError(w)
		return
	}

	tok, err := h.tokens.Issue(u.ID)
	if err != nil {
		h.logger.Errorw("token issue failed", "err", err)
		httpx.ServerError(w)
		return
	}
	httpx.JSON(w, http.StatusOK, tokenResponse{Token: tok})
}

// Current handles GET /api/auth (private): the authenticated user sans
// password hash.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.GetByID(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.logger.Errorw("current user lookup failed", "err", err)
		httpx.ServerError(w)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}
