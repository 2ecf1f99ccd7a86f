package post

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/devlink/service-social-go/internal/post/entity"
	postrepo "github.com/devlink/service-social-go/internal/post/repo"
	userentity "github.com/devlink/service-social-go/internal/user/entity"
	"github.com/devlink/service-social-go/pkg/utilities"
)

var (
	ErrNotFound        = errors.New("post not found")
	ErrForbidden       = errors.New("not the author")
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotLiked        = errors.New("post not yet liked")
	ErrCommentNotFound = errors.New("comment not found")
)

// Repository is the store surface the service needs; *repo.PostRepo
// satisfies it.
type Repository interface {
	Create(ctx context.Context, p *entity.Post) error
	List(ctx context.Context) ([]*entity.Post, error)
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID int64) error
	ReplaceLikes(ctx context.Context, id string, likes []entity.Like) error
	ReplaceComments(ctx context.Context, id string, comments []entity.Comment) error
}

// UserGetter resolves the author for name/avatar snapshots; the user
// repo satisfies it.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*userentity.User, error)
}

// Service carries post CRUD plus the like and comment mutations. All
// array mutations are read-modify-write; concurrent writers on the same
// post go last-write-wins.
type Service struct {
	repo  Repository
	users UserGetter
	now   func() time.Time
}

func NewService(db *sqlx.DB, r Repository, users UserGetter) *Service {
	if r == nil {
		r = postrepo.NewPostRepo(db)
	}
	return &Service{repo: r, users: users, now: time.Now}
}

// Create snapshots the author's name and avatar onto a new post.
func (s *Service) Create(ctx context.Context, userID int64, text string) (*entity.Post, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := &entity.Post{
		ID:       utilities.NewSnowflakeID(),
		User:     userID,
		Text:     text,
		Name:     u.Name,
		Avatar:   u.Avatar,
		Likes:    []entity.Like{},
		Comments: []entity.Comment{},
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns all posts, newest first.
func (s *Service) List(ctx context.Context) ([]*entity.Post, error) {
	return s.repo.List(ctx)
}

// Get returns one post or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*entity.Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Delete removes a post; only its author may.
func (s *Service) Delete(ctx context.Context, userID int64, postID string) error {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if p.User != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, postID)
}

// Like adds the user to the post's like set (prepended), rejecting
// duplicates.
func (s *Service) Like(ctx context.Context, userID int64, postID string) ([]entity.Like, error) {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	for _, l := range p.Likes {
		if l.User == userID {
			return nil, ErrAlreadyLiked
		}
	}
	p.Likes = append([]entity.Like{{User: userID}}, p.Likes...)
	if err := s.repo.ReplaceLikes(ctx, postID, p.Likes); err != nil {
		return nil, err
	}
	return p.Likes, nil
}

// Unlike removes the user from the like set, rejecting when absent.
func (s *Service) Unlike(ctx context.Context, userID int64, postID string) ([]entity.Like, error) {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	kept := make([]entity.Like, 0, len(p.Likes))
	found := false
	for _, l := range p.Likes {
		if l.User == userID {
			found = true
			continue
		}
		kept = append(kept, l)
	}
	if !found {
		return nil, ErrNotLiked
	}
	if err := s.repo.ReplaceLikes(ctx, postID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// AddComment prepends a comment with an author snapshot and a generated
// id, returning the updated comment list.
func (s *Service) AddComment(ctx context.Context, userID int64, postID, text string) ([]entity.Comment, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	c := entity.Comment{
		ID:     utilities.NewKSUID(),
		User:   userID,
		Text:   text,
		Name:   u.Name,
		Avatar: u.Avatar,
		Date:   s.now(),
	}
	p.Comments = append([]entity.Comment{c}, p.Comments...)
	if err := s.repo.ReplaceComments(ctx, postID, p.Comments); err != nil {
		return nil, err
	}
	return p.Comments, nil
}

// DeleteComment removes a comment by id; only the comment's author may.
func (s *Service) DeleteComment(ctx context.Context, userID int64, postID, commentID string) ([]entity.Comment, error) {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrCommentNotFound
	}
	if p.Comments[idx].User != userID {
		return nil, ErrForbidden
	}
	p.Comments = append(p.Comments[:idx], p.Comments[idx+1:]...)
	if err := s.repo.ReplaceComments(ctx, postID, p.Comments); err != nil {
		return nil, err
	}
	return p.Comments, nil
}
