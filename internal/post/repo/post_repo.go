package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/devlink/service-social-go/internal/post/entity"
)

// PostRepo provides data access for the posts table. Likes and comments
// live in JSONB columns and are replaced wholesale on mutation.
type PostRepo struct {
	db *sqlx.DB
}

func NewPostRepo(db *sqlx.DB) *PostRepo { return &PostRepo{db: db} }

// EnsureTable creates the posts table if not exists (idempotent).
func (r *PostRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS posts (
  id VARCHAR(32) PRIMARY KEY,
  user_id BIGINT NOT NULL,
  text TEXT NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  avatar TEXT NOT NULL DEFAULT '',
  likes JSONB NOT NULL DEFAULT '[]'::jsonb,
  comments JSONB NOT NULL DEFAULT '[]'::jsonb,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id);
CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at DESC);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

type postRow struct {
	ID        string    `db:"id"`
	UserID    int64     `db:"user_id"`
	Text      string    `db:"text"`
	Name      string    `db:"name"`
	Avatar    string    `db:"avatar"`
	Likes     []byte    `db:"likes"`
	Comments  []byte    `db:"comments"`
	CreatedAt time.Time `db:"created_at"`
}

func (row *postRow) toEntity() (*entity.Post, error) {
	p := &entity.Post{
		ID:        row.ID,
		User:      row.UserID,
		Text:      row.Text,
		Name:      row.Name,
		Avatar:    row.Avatar,
		Likes:     []entity.Like{},
		Comments:  []entity.Comment{},
		CreatedAt: row.CreatedAt,
	}
	if len(row.Likes) > 0 {
		if err := json.Unmarshal(row.Likes, &p.Likes); err != nil {
			return nil, fmt.Errorf("decode likes: %w", err)
		}
	}
	if len(row.Comments) > 0 {
		if err := json.Unmarshal(row.Comments, &p.Comments); err != nil {
			return nil, fmt.Errorf("decode comments: %w", err)
		}
	}
	if p.Likes == nil {
		p.Likes = []entity.Like{}
	}
	if p.Comments == nil {
		p.Comments = []entity.Comment{}
	}
	return p, nil
}

// Create inserts a new post row.
func (r *PostRepo) Create(ctx context.Context, p *entity.Post) error {
	const q = `INSERT INTO posts (id, user_id, text, name, avatar)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	return r.db.QueryRowxContext(ctx, q, p.ID, p.User, p.Text, p.Name, p.Avatar).
		Scan(&p.CreatedAt)
}

// List returns all posts, newest first.
func (r *PostRepo) List(ctx context.Context) ([]*entity.Post, error) {
	const q = `SELECT id, user_id, text, name, avatar, likes, comments, created_at
		FROM posts ORDER BY created_at DESC`
	var rows []postRow
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	out := make([]*entity.Post, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// GetByID fetches one post or sql.ErrNoRows.
func (r *PostRepo) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	const q = `SELECT id, user_id, text, name, avatar, likes, comments, created_at
		FROM posts WHERE id = $1`
	var row postRow
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return row.toEntity()
}

// Delete removes one post.
func (r *PostRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// DeleteByUser removes every post a user authored.
func (r *PostRepo) DeleteByUser(ctx context.Context, userID int64) error {
	const q = `DELETE FROM posts WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, q, userID)
	return err
}

// ReplaceLikes overwrites the likes array.
func (r *PostRepo) ReplaceLikes(ctx context.Context, id string, likes []entity.Like) error {
	raw, err := json.Marshal(likes)
	if err != nil {
		return err
	}
	const q = `UPDATE posts SET likes = $2 WHERE id = $1`
	_, err = r.db.ExecContext(ctx, q, id, raw)
	return err
}

// ReplaceComments overwrites the comments array.
func (r *PostRepo) ReplaceComments(ctx context.Context, id string, comments []entity.Comment) error {
	raw, err := json.Marshal(comments)
	if err != nil {
		return err
	}
	const q = `UPDATE posts SET comments = $2 WHERE id = $1`
	_, err = r.db.ExecContext(ctx, q, id, raw)
	return err
}
