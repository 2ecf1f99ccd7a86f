package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/devlink/service-social-go/internal/config"
	"github.com/devlink/service-social-go/internal/github"
	"github.com/devlink/service-social-go/internal/post"
	postrepo "github.com/devlink/service-social-go/internal/post/repo"
	"github.com/devlink/service-social-go/internal/profile"
	profilerepo "github.com/devlink/service-social-go/internal/profile/repo"
	"github.com/devlink/service-social-go/internal/router"
	"github.com/devlink/service-social-go/internal/token"
	"github.com/devlink/service-social-go/internal/user"
	userrepo "github.com/devlink/service-social-go/internal/user/repo"
	"github.com/devlink/service-social-go/pkg/database"
	"github.com/devlink/service-social-go/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// this is best-effort: if no .env exists, continue (use defaults or real env)
	_ = godotenv.Load()

	lg, err := utilities.InitLogger(utilities.LogConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-social-go")

	cfg := config.FromEnv()
	if cfg.JWTSecret == "" {
		sugar.Fatal("JWT_SECRET is required")
	}

	sqlDB, err := database.Connect(database.Config{DSN: cfg.DatabaseURL})
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()

	db := sqlx.NewDb(sqlDB, "postgres")
	defer db.Close()

	users := userrepo.NewUserRepo(db)
	profiles := profilerepo.NewProfileRepo(db)
	posts := postrepo.NewPostRepo(db)

	initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelInit()
	for _, ensure := range []func(context.Context) error{
		users.EnsureTable, profiles.EnsureTable, posts.EnsureTable,
	} {
		if err := ensure(initCtx); err != nil {
			sugar.Fatalf("ensure tables: %v", err)
		}
	}

	tokens := token.NewService(cfg.JWTSecret)
	userSvc := user.NewService(db, users, nil)
	postSvc := post.NewService(db, posts, users)
	profileSvc := profile.NewService(db, profiles, posts, users)

	handler := router.New(router.Deps{
		Logger:   sugar,
		Tokens:   tokens,
		Users:    user.NewHandler(userSvc, tokens, sugar),
		Profiles: profile.NewHandler(profileSvc, github.NewClient(cfg.GithubToken), sugar),
		Posts:    post.NewHandler(postSvc, sugar),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.Port,
		Handler: handler,
	}

	go func() {
		sugar.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()

	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
