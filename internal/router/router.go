// Package router mounts every HTTP route, applying the auth gate to
// private ones and the logging/security middleware to everything.
package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/devlink/service-social-go/internal/middleware"
	"github.com/devlink/service-social-go/internal/post"
	"github.com/devlink/service-social-go/internal/profile"
	"github.com/devlink/service-social-go/internal/token"
	"github.com/devlink/service-social-go/internal/user"
)

// Deps bundles everything the route table needs.
type Deps struct {
	Logger   *zap.SugaredLogger
	Tokens   *token.Service
	Users    *user.Handler
	Profiles *profile.Handler
	Posts    *post.Handler
}

// New builds the full handler chain.
func New(d Deps) http.Handler {
	r := mux.NewRouter()
	gate := middleware.AuthGate(d.Tokens)
	private := func(h http.HandlerFunc) http.Handler { return gate(h) }

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("API Running"))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// users / auth
	api.HandleFunc("/users", d.Users.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth", d.Users.Login).Methods(http.MethodPost)
	api.Handle("/auth", private(d.Users.Current)).Methods(http.MethodGet)

	// profile
	api.Handle("/profile", private(d.Profiles.Upsert)).Methods(http.MethodPost)
	api.HandleFunc("/profile", d.Profiles.List).Methods(http.MethodGet)
	api.Handle("/profile", private(d.Profiles.DeleteAccount)).Methods(http.MethodDelete)
	api.Handle("/profile/me", private(d.Profiles.Me)).Methods(http.MethodGet)
	api.HandleFunc("/profile/user/{user_id}", d.Profiles.ByUser).Methods(http.MethodGet)
	api.Handle("/profile/experience", private(d.Profiles.AddExperience)).Methods(http.MethodPut)
	api.Handle("/profile/experience/{exp_id}", private(d.Profiles.RemoveExperience)).Methods(http.MethodDelete)
	api.Handle("/profile/education", private(d.Profiles.AddEducation)).Methods(http.MethodPut)
	api.Handle("/profile/education/{edu_id}", private(d.Profiles.RemoveEducation)).Methods(http.MethodDelete)
	api.HandleFunc("/profile/github/{username}", d.Profiles.Github).Methods(http.MethodGet)

	// posts
	api.Handle("/posts", private(d.Posts.Create)).Methods(http.MethodPost)
	api.Handle("/posts", private(d.Posts.List)).Methods(http.MethodGet)
	api.Handle("/posts/{id}", private(d.Posts.Get)).Methods(http.MethodGet)
	api.Handle("/posts/{id}", private(d.Posts.Delete)).Methods(http.MethodDelete)
	api.Handle("/posts/like/{id}", private(d.Posts.Like)).Methods(http.MethodPut)
	api.Handle("/posts/unlike/{id}", private(d.Posts.Unlike)).Methods(http.MethodPut)
	api.Handle("/posts/comment/{id}", private(d.Posts.AddComment)).Methods(http.MethodPost)
	api.Handle("/posts/comment/{id}/{comment_id}", private(d.Posts.DeleteComment)).Methods(http.MethodDelete)

	return middleware.Logging(d.Logger)(middleware.SecurityHeaders()(r))
}
