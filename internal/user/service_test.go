package user

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devlink/service-social-go/internal/user/entity"
)

type fakeUserRepo struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[int64]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	u.ID = f.seq
	u.CreatedAt = time.Now()
	cp := *u
	f.byID[u.ID] = &cp
	return u.ID, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

func TestRegister(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, newFakeUserRepo(), nil)

	u, err := svc.Register(context.Background(), "A", "A@X.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email, "email is normalized")
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.Contains(t, u.Avatar, "gravatar.com/avatar/")
	assert.Contains(t, u.Avatar, "s=200&r=pg&d=mm")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, newFakeUserRepo(), nil)

	_, err := svc.Register(context.Background(), "A", "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "B", "A@X.COM", "secret2")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestAuthenticate_UniformFailure(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, newFakeUserRepo(), nil)
	_, err := svc.Register(context.Background(), "A", "a@x.com", "secret1")
	require.NoError(t, err)

	_, wrongPw := svc.Authenticate(context.Background(), "a@x.com", "wrong")
	_, noUser := svc.Authenticate(context.Background(), "nobody@x.com", "secret1")

	// unknown email and wrong password are indistinguishable
	assert.ErrorIs(t, wrongPw, ErrBadCredentials)
	assert.ErrorIs(t, noUser, ErrBadCredentials)
}

func TestAuthenticate_Success(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, newFakeUserRepo(), nil)
	created, err := svc.Register(context.Background(), "A", "a@x.com", "secret1")
	require.NoError(t, err)

	got, err := svc.Authenticate(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestGravatarURL(t *testing.T) {
	t.Parallel()

	a := GravatarURL("a@x.com")
	assert.Equal(t, a, GravatarURL(" A@X.COM "), "case and whitespace do not change the hash")
	assert.NotEqual(t, a, GravatarURL("b@x.com"))
}
