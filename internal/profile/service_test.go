package profile

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devlink/service-social-go/internal/profile/entity"
)

type fakeProfileRepo struct {
	mu     sync.Mutex
	byUser map[int64]*entity.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byUser: map[int64]*entity.Profile{}}
}

func applyPatch(p *entity.Profile, patch *entity.Patch) {
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

func (f *fakeProfileRepo) Create(_ context.Context, userID int64, patch *entity.Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &entity.Profile{
		ID:         "p1",
		User:       entity.Owner{ID: userID},
		Skills:     []string{},
		Experience: []entity.Experience{},
		Education:  []entity.Education{},
		CreatedAt:  time.Now(),
	}
	applyPatch(p, patch)
	f.byUser[userID] = p
	return nil
}

func (f *fakeProfileRepo) Update(_ context.Context, userID int64, patch *entity.Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byUser[userID]
	if !ok {
		return sql.ErrNoRows
	}
	applyPatch(p, patch)
	return nil
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID int64) (*entity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byUser[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) List(_ context.Context) ([]*entity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Profile, 0, len(f.byUser))
	for _, p := range f.byUser {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeProfileRepo) ReplaceExperience(_ context.Context, userID int64, entries []entity.Experience) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byUser[userID]
	if !ok {
		return sql.ErrNoRows
	}
	p.Experience = entries
	return nil
}

func (f *fakeProfileRepo) ReplaceEducation(_ context.Context, userID int64, entries []entity.Education) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byUser[userID]
	if !ok {
		return sql.ErrNoRows
	}
	p.Education = entries
	return nil
}

func (f *fakeProfileRepo) Delete(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byUser, userID)
	return nil
}

type recordingPurger struct{ calls *[]string }

func (r recordingPurger) DeleteByUser(context.Context, int64) error {
	*r.calls = append(*r.calls, "posts")
	return nil
}

type recordingDeleter struct{ calls *[]string }

func (r recordingDeleter) Delete(context.Context, int64) error {
	*r.calls = append(*r.calls, "user")
	return nil
}

func strptr(s string) *string { return &s }

func TestUpsert_SparsePatch(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, newFakeProfileRepo(), nil, nil)
	ctx := context.Background()

	p, err := svc.Upsert(ctx, 1, &entity.Patch{
		Status: strptr("dev"),
		Skills: []string{"a", "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, "dev", p.Status)
	assert.Equal(t, []string{"a", "b"}, p.Skills)

	// a later patch with only bio must leave status/skills untouched
	p, err = svc.Upsert(ctx, 1, &entity.Patch{Bio: strptr("x")})
	require.NoError(t, err)
	assert.Equal(t, "x", p.Bio)
	assert.Equal(t, "dev", p.Status)
	assert.Equal(t, []string{"a", "b"}, p.Skills)
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, newFakeProfileRepo(), nil, nil)
	_, err := svc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddExperience_PrependsAndAssignsID(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, newFakeProfileRepo(), nil, nil)
	ctx := context.Background()
	_, err := svc.Upsert(ctx, 1, &entity.Patch{Status: strptr("dev"), Skills: []string{"go"}})
	require.NoError(t, err)

	p, err := svc.AddExperience(ctx, 1, entity.Experience{Title: "first", Company: "c", From: "2020"})
	require.NoError(t, err)
	require.Len(t, p.Experience, 1)
	assert.NotEmpty(t, p.Experience[0].ID)

	p, err = svc.AddExperience(ctx, 1, entity.Experience{Title: "second", Company: "c", From: "2021"})
	require.NoError(t, err)
	require.Len(t, p.Experience, 2)
	assert.Equal(t, "second", p.Experience[0].Title, "most recent entry comes first")
	assert.Equal(t, "first", p.Experience[1].Title)
}

func TestRemoveExperience(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, newFakeProfileRepo(), nil, nil)
	ctx := context.Background()
	_, err := svc.Upsert(ctx, 1, &entity.Patch{Status: strptr("dev"), Skills: []string{"go"}})
	require.NoError(t, err)
	p, err := svc.AddExperience(ctx, 1, entity.Experience{Title: "t", Company: "c", From: "2020"})
	require.NoError(t, err)

	_, err = svc.RemoveExperience(ctx, 1, "no-such-id")
	assert.ErrorIs(t, err, ErrExperienceNotFound)

	got, err := svc.RemoveExperience(ctx, 1, p.Experience[0].ID)
	require.NoError(t, err)
	assert.Empty(t, got.Experience)
}

func TestRemoveEducation_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, newFakeProfileRepo(), nil, nil)
	ctx := context.Background()
	_, err := svc.Upsert(ctx, 1, &entity.Patch{Status: strptr("dev"), Skills: []string{"go"}})
	require.NoError(t, err)

	_, err = svc.RemoveEducation(ctx, 1, "missing")
	assert.ErrorIs(t, err, ErrEducationNotFound)
}

func TestDeleteAccount_CascadeOrder(t *testing.T) {
	t.Parallel()

	var calls []string
	repo := newFakeProfileRepo()
	svc := NewService(nil, repo, recordingPurger{&calls}, recordingDeleter{&calls})
	ctx := context.Background()
	_, err := svc.Upsert(ctx, 1, &entity.Patch{Status: strptr("dev"), Skills: []string{"go"}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, 1))
	assert.Equal(t, []string{"posts", "user"}, calls, "posts purged before the user row")
	_, err = svc.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting again is idempotent
	require.NoError(t, svc.DeleteAccount(ctx, 1))
}

func TestNormalizeSkills(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b"}, NormalizeSkills("a, b"))
	assert.Equal(t, []string{"go", "rust"}, NormalizeSkills([]any{" go ", "rust"}))
	assert.Nil(t, NormalizeSkills(nil))
	assert.Empty(t, NormalizeSkills("  ,  "))
}
