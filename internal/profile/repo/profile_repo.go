package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/devlink/service-social-go/internal/profile/entity"
	"github.com/devlink/service-social-go/pkg/utilities"
)

// ProfileRepo provides data access for the profiles table. The
// document-shaped fields (skills, social, experience, education) live
// in JSONB columns and are replaced wholesale on mutation.
type ProfileRepo struct {
	db *sqlx.DB
}

func NewProfileRepo(db *sqlx.DB) *ProfileRepo { return &ProfileRepo{db: db} }

// EnsureTable creates the profiles table if not exists (idempotent).
func (r *ProfileRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS profiles (
  id VARCHAR(32) PRIMARY KEY,
  user_id BIGINT UNIQUE NOT NULL,
  company TEXT NOT NULL DEFAULT '',
  website TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  bio TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT '',
  github_username TEXT NOT NULL DEFAULT '',
  skills JSONB NOT NULL DEFAULT '[]'::jsonb,
  social JSONB NOT NULL DEFAULT '{}'::jsonb,
  experience JSONB NOT NULL DEFAULT '[]'::jsonb,
  education JSONB NOT NULL DEFAULT '[]'::jsonb,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_profiles_user_id ON profiles(user_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

type profileRow struct {
	ID             string    `db:"id"`
	UserID         int64     `db:"user_id"`
	Company        string    `db:"company"`
	Website        string    `db:"website"`
	Location       string    `db:"location"`
	Bio            string    `db:"bio"`
	Status         string    `db:"status"`
	GithubUsername string    `db:"github_username"`
	Skills         []byte    `db:"skills"`
	Social         []byte    `db:"social"`
	Experience     []byte    `db:"experience"`
	Education      []byte    `db:"education"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	OwnerName      string    `db:"owner_name"`
	OwnerAvatar    string    `db:"owner_avatar"`
}

func (row *profileRow) toEntity() (*entity.Profile, error) {
	p := &entity.Profile{
		ID:             row.ID,
		User:           entity.Owner{ID: row.UserID, Name: row.OwnerName, Avatar: row.OwnerAvatar},
		Company:        row.Company,
		Website:        row.Website,
		Location:       row.Location,
		Bio:            row.Bio,
		Status:         row.Status,
		GithubUsername: row.GithubUsername,
		Skills:         []string{},
		Experience:     []entity.Experience{},
		Education:      []entity.Education{},
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if len(row.Skills) > 0 {
		if err := json.Unmarshal(row.Skills, &p.Skills); err != nil {
			return nil, fmt.Errorf("decode skills: %w", err)
		}
	}
	if len(row.Social) > 0 {
		if err := json.Unmarshal(row.Social, &p.Social); err != nil {
			return nil, fmt.Errorf("decode social: %w", err)
		}
	}
	if len(row.Experience) > 0 {
		if err := json.Unmarshal(row.Experience, &p.Experience); err != nil {
			return nil, fmt.Errorf("decode experience: %w", err)
		}
	}
	if len(row.Education) > 0 {
		if err := json.Unmarshal(row.Education, &p.Education); err != nil {
			return nil, fmt.Errorf("decode education: %w", err)
		}
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []entity.Experience{}
	}
	if p.Education == nil {
		p.Education = []entity.Education{}
	}
	return p, nil
}

const selectColumns = `p.id, p.user_id, p.company, p.website, p.location, p.bio,
	p.status, p.github_username, p.skills, p.social, p.experience, p.education,
	p.created_at, p.updated_at, u.name AS owner_name, u.avatar AS owner_avatar`

// Create inserts a new profile for the user described by the patch.
func (r *ProfileRepo) Create(ctx context.Context, userID int64, patch *entity.Patch) error {
	p := entity.Profile{ID: utilities.NewSnowflakeID(), Skills: []string{}}
	applyPatchFields(&p, patch)

	skills, _ := json.Marshal(p.Skills)
	social, _ := json.Marshal(p.Social)

	const q = `INSERT INTO profiles (id, user_id, company, website, location, bio, status, github_username, skills, social)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, q, p.ID, userID, p.Company, p.Website, p.Location,
		p.Bio, p.Status, p.GithubUsername, skills, social)
	return err
}

// Update applies a sparse patch: only non-nil fields become SET clauses.
func (r *ProfileRepo) Update(ctx context.Context, userID int64, patch *entity.Patch) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{userID}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Company != nil {
		add("company", *patch.Company)
	}
	if patch.Website != nil {
		add("website", *patch.Website)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.Bio != nil {
		add("bio", *patch.Bio)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.GithubUsername != nil {
		add("github_username", *patch.GithubUsername)
	}
	if patch.Skills != nil {
		raw, _ := json.Marshal(patch.Skills)
		add("skills", raw)
	}
	if patch.Social != nil {
		raw, _ := json.Marshal(patch.Social)
		add("social", raw)
	}

	q := fmt.Sprintf("UPDATE profiles SET %s WHERE user_id = $1", strings.Join(sets, ", "))
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

// GetByUserID returns the profile joined with its owner, or sql.ErrNoRows.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID int64) (*entity.Profile, error) {
	q := fmt.Sprintf(`SELECT %s FROM profiles p JOIN users u ON u.id = p.user_id WHERE p.user_id = $1`, selectColumns)
	var row profileRow
	if err := r.db.GetContext(ctx, &row, q, userID); err != nil {
		return nil, err
	}
	return row.toEntity()
}

// List returns all profiles joined with their owners, newest first.
func (r *ProfileRepo) List(ctx context.Context) ([]*entity.Profile, error) {
	q := fmt.Sprintf(`SELECT %s FROM profiles p JOIN users u ON u.id = p.user_id ORDER BY p.created_at DESC`, selectColumns)
	var rows []profileRow
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	out := make([]*entity.Profile, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ReplaceExperience overwrites the experience array.
func (r *ProfileRepo) ReplaceExperience(ctx context.Context, userID int64, entries []entity.Experience) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	const q = `UPDATE profiles SET experience = $2, updated_at = NOW() WHERE user_id = $1`
	_, err = r.db.ExecContext(ctx, q, userID, raw)
	return err
}

// ReplaceEducation overwrites the education array.
func (r *ProfileRepo) ReplaceEducation(ctx context.Context, userID int64, entries []entity.Education) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	const q = `UPDATE profiles SET education = $2, updated_at = NOW() WHERE user_id = $1`
	_, err = r.db.ExecContext(ctx, q, userID, raw)
	return err
}

// Delete removes the user's profile. Missing rows are not an error.
func (r *ProfileRepo) Delete(ctx context.Context, userID int64) error {
	const q = `DELETE FROM profiles WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, q, userID)
	return err
}

func applyPatchFields(p *entity.Profile, patch *entity.Patch) {
	if patch.Company != nil {
		p.Company = *patch.Company
	}
	if patch.Website != nil {
		p.Website = *patch.Website
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.Bio != nil {
		p.Bio = *patch.Bio
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.GithubUsername != nil {
		p.GithubUsername = *patch.GithubUsername
	}
	if patch.Skills != nil {
		p.Skills = patch.Skills
	}
	if patch.Social != nil {
		p.Social = *patch.Social
	}
}
