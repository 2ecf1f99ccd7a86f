package user

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/devlink/service-social-go/internal/user/entity"
	userrepo "github.com/devlink/service-social-go/internal/user/repo"
)

var (
	ErrDuplicateEmail = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid credentials")
	ErrNotFound       = errors.New("user not found")
)

// Repository is the store surface the service needs; *repo.UserRepo
// satisfies it, tests substitute an in-memory fake.
type Repository interface {
	Create(ctx context.Context, u *entity.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	Delete(ctx context.Context, id int64) error
}

// PasswordHasher defines the minimal hashing interface (abstract so we
// can swap to argon2 later).
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Service orchestrates registration and authentication.
type Service struct {
	repo   Repository
	hasher PasswordHasher
}

func NewService(db *sqlx.DB, r Repository, hasher PasswordHasher) *Service {
	if r == nil {
		r = userrepo.NewUserRepo(db)
	}
	if hasher == nil {
		hasher = BcryptHasher{Cost: 10}
	}
	return &Service{repo: r, hasher: hasher}
}

// Register creates a user with a gravatar-derived avatar and a hashed
// password. Fails with ErrDuplicateEmail when the email is taken.
func (s *Service) Register(ctx context.Context, name, email, password string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Avatar:       GravatarURL(email),
	}
	if _, err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies email + password. Unknown email and wrong
// password both return ErrBadCredentials so callers cannot tell which
// check failed.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return nil, ErrBadCredentials
	}
	return u, nil
}

// GetByID loads a user for the current-user endpoint.
func (s *Service) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// GravatarURL derives the avatar URL for an email: 200px, pg rating,
// identicon fallback.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&r=pg&d=mm", hex.EncodeToString(sum[:]))
}
