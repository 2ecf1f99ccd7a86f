package post

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/devlink/service-social-go/internal/httpx"
	"github.com/devlink/service-social-go/internal/middleware"
	"github.com/devlink/service-social-go/internal/validate"
)

// Handler exposes the post endpoints. All of them are private.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

var textRules = []validate.Rule{
	{Field: "text", Message: "Text is Required", Check: validate.NotEmpty},
}

type textRequest struct {
	Text string `json:"text"`
}

// Create handles POST /api/posts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	body, err := httpx.Decode(r, &req)
	if err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validate.Apply(body, textRules); len(errs) > 0 {
		httpx.ValidationFailed(w, errs)
		return
	}

	p, err := h.svc.Create(r.Context(), middleware.UserID(r.Context()), req.Text)
	if err != nil {
		h.logger.Errorw("post create failed", "err", err)
		httpx.ServerError(w)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// List handles GET /api/posts: newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Errorw("post list failed", "err", err)
		httpx.ServerError(w)
		return
	}
	httpx.JSON(w, http.StatusOK, posts)
}

// Get handles GET /api/posts/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Msg(w, http.StatusNotFound, "Post not found")
			return
		}
		h.logger.Errorw("post lookup failed", "err", err)
		httpx.ServerError(w)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/posts/{id}: author only.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), middleware.UserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.Msg(w, http.StatusNotFound, "Post not found")
		case errors.Is(err, ErrForbidden):
			httpx.Msg(w, http.StatusForbidden, "User not authorized to delete post")
		default:
			h.logger.Errorw("post delete failed", "err", err)
			httpx.ServerError(w)
		}
		return
	}
	httpx.Msg(w, http.StatusOK, "Post deleted")
}

// Like handles PUT /api/posts/like/{id}.
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	likes, err := h.svc.Like(r.Context(), middleware.UserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.Msg(w, http.StatusNotFound, "Post not found")
		case errors.Is(err, ErrAlreadyLiked):
			httpx.Msg(w, http.StatusBadRequest, "Post already liked")
		default:
			h.logger.Errorw("post like failed", "err", err)
			httpx.ServerError(w)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, likes)
}

// Unlike handles PUT /api/posts/unlike/{id}.
func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	likes, err := h.svc.Unlike(r.Context(), middleware.UserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.Msg(w, http.StatusNotFound, "Post not found")
		case errors.Is(err, ErrNotLiked):
			httpx.Msg(w, http.StatusBadRequest, "Post has not yet been liked")
		default:
			h.logger.Errorw("post unlike failed", "err", err)
			httpx.ServerError(w)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, likes)
}

// AddComment handles POST /api/posts/comment/{id}.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	body, err := httpx.Decode(r, &req)
	if err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validate.Apply(body, textRules); len(errs) > 0 {
		httpx.ValidationFailed(w, errs)
		return
	}

	comments, err := h.svc.AddComment(r.Context(), middleware.UserID(r.Context()), mux.Vars(r)["id"], req.Text)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Msg(w, http.StatusNotFound, "Post not found")
			return
		}
		h.logger.Errorw("comment add failed", "err", err)
		httpx.ServerError(w)
		return
	}
	httpx.JSON(w, http.StatusOK, comments)
}

// DeleteComment handles DELETE /api/posts/comment/{id}/{comment_id}.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	comments, err := h.svc.DeleteComment(r.Context(), middleware.UserID(r.Context()), vars["id"], vars["comment_id"])
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.Msg(w, http.StatusNotFound, "Post not found")
		case errors.Is(err, ErrCommentNotFound):
			httpx.Msg(w, http.StatusNotFound, "Comment does not exist")
		case errors.Is(err, ErrForbidden):
			httpx.Msg(w, http.StatusForbidden, "User not authorized")
		default:
			h.logger.Errorw("comment delete failed", "err", err)
			httpx.ServerError(w)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, comments)
}
