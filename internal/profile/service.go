package profile

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/devlink/service-social-go/internal/profile/entity"
	profilerepo "github.com/devlink/service-social-go/internal/profile/repo"
	"github.com/devlink/service-social-go/pkg/utilities"
)

var (
	ErrNotFound           = errors.New("profile not found")
	ErrExperienceNotFound = errors.New("experience entry not found")
	ErrEducationNotFound  = errors.New("education entry not found")
)

// Repository is the store surface the service needs; *repo.ProfileRepo
// satisfies it.
type Repository interface {
	Create(ctx context.Context, userID int64, patch *entity.Patch) error
	Update(ctx context.Context, userID int64, patch *entity.Patch) error
	GetByUserID(ctx context.Context, userID int64) (*entity.Profile, error)
	List(ctx context.Context) ([]*entity.Profile, error)
	ReplaceExperience(ctx context.Context, userID int64, entries []entity.Experience) error
	ReplaceEducation(ctx context.Context, userID int64, entries []entity.Education) error
	Delete(ctx context.Context, userID int64) error
}

// PostPurger removes every post a user authored; the post repo
// satisfies it. Used by the account cascade delete.
type PostPurger interface {
	DeleteByUser(ctx context.Context, userID int64) error
}

// UserDeleter removes the user row itself; the user repo satisfies it.
type UserDeleter interface {
	Delete(ctx context.Context, id int64) error
}

// Service carries profile reads, the sparse-patch upsert, the
// experience/education sub-document mutations, and the account cascade.
type Service struct {
	repo  Repository
	posts PostPurger
	users UserDeleter
}

func NewService(db *sqlx.DB, r Repository, posts PostPurger, users UserDeleter) *Service {
	if r == nil {
		r = profilerepo.NewProfileRepo(db)
	}
	return &Service{repo: r, posts: posts, users: users}
}

// Upsert creates the profile when absent, otherwise applies the sparse
// patch; either way the resulting profile is returned.
func (s *Service) Upsert(ctx context.Context, userID int64, patch *entity.Patch) (*entity.Profile, error) {
	_, err := s.repo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		if err := s.repo.Update(ctx, userID, patch); err != nil {
			return nil, err
		}
	case errors.Is(err, sql.ErrNoRows):
		if err := s.repo.Create(ctx, userID, patch); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return s.repo.GetByUserID(ctx, userID)
}

// Get returns one user's profile or ErrNotFound.
func (s *Service) Get(ctx context.Context, userID int64) (*entity.Profile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns all profiles.
func (s *Service) List(ctx context.Context) ([]*entity.Profile, error) {
	return s.repo.List(ctx)
}

// AddExperience prepends a work-history entry (most-recent-first) and
// returns the updated profile.
func (s *Service) AddExperience(ctx context.Context, userID int64, exp entity.Experience) (*entity.Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	exp.ID = utilities.NewKSUID()
	p.Experience = append([]entity.Experience{exp}, p.Experience...)
	if err := s.repo.ReplaceExperience(ctx, userID, p.Experience); err != nil {
		return nil, err
	}
	return p, nil
}

// RemoveExperience deletes an entry by id; a missing id is reported,
// never silently spliced.
func (s *Service) RemoveExperience(ctx context.Context, userID int64, entryID string) (*entity.Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range p.Experience {
		if p.Experience[i].ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrExperienceNotFound
	}
	p.Experience = append(p.Experience[:idx], p.Experience[idx+1:]...)
	if err := s.repo.ReplaceExperience(ctx, userID, p.Experience); err != nil {
		return nil, err
	}
	return p, nil
}

// AddEducation prepends an education entry and returns the updated
// profile.
func (s *Service) AddEducation(ctx context.Context, userID int64, edu entity.Education) (*entity.Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	edu.ID = utilities.NewKSUID()
	p.Education = append([]entity.Education{edu}, p.Education...)
	if err := s.repo.ReplaceEducation(ctx, userID, p.Education); err != nil {
		return nil, err
	}
	return p, nil
}

// RemoveEducation deletes an education entry by id.
func (s *Service) RemoveEducation(ctx context.Context, userID int64, entryID string) (*entity.Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range p.Education {
		if p.Education[i].ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrEducationNotFound
	}
	p.Education = append(p.Education[:idx], p.Education[idx+1:]...)
	if err := s.repo.ReplaceEducation(ctx, userID, p.Education); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteAccount removes the user's posts, profile, and user row, in
// that order. Steps that find nothing are not errors, so the whole
// operation is idempotent.
func (s *Service) DeleteAccount(ctx context.Context, userID int64) error {
	if err := s.posts.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	return s.users.Delete(ctx, userID)
}

// NormalizeSkills accepts the two shapes clients send (JSON array or
// comma-separated string) and produces an ordered list of trimmed
// strings. A nil input stays nil so the patch leaves skills untouched.
func NormalizeSkills(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		parts := strings.Split(t, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	default:
		return nil
	}
}
