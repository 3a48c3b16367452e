package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	dom "github.com/alex-rutan/express-messagely/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo mimics the Postgres repo: the primary key decides
// uniqueness, missing rows surface as pgx.ErrNoRows.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]dom.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]dom.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, username, passwordHash, firstName, lastName, phone string) (dom.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[username]; exists {
		return dom.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_pkey"}
	}
	now := time.Now().UTC()
	u := dom.User{
		Username:     username,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
		JoinedAt:     now,
		LastLoginAt:  now,
	}
	f.users[username] = u
	return u, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]dom.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []dom.UserSummary
	for _, u := range f.users {
		out = append(out, dom.UserSummary{Username: u.Username, FirstName: u.FirstName, LastName: u.LastName})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (f *fakeUserRepo) TouchLastLogin(ctx context.Context, username string) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return time.Time{}, pgx.ErrNoRows
	}
	u.LastLoginAt = time.Now().UTC()
	f.users[username] = u
	return u.LastLoginAt, nil
}

func TestUserService_Register(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "secret1", "Alice", "Anders", "555-0101")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.False(t, u.JoinedAt.IsZero())
	assert.False(t, u.LastLoginAt.IsZero())

	// The stored credential is a bcrypt hash of the password, not the password.
	stored := repo.users["alice"]
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestUserService_Register_Conflict(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret1", "Alice", "Anders", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other", "Other", "Person", "")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUserService_Register_MissingFields(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "pw", "A", "B", "")
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = svc.Register(ctx, "   ", "pw", "A", "B", "")
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = svc.Register(ctx, "alice", "", "A", "B", "")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestUserService_ValidateCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret1", "Alice", "Anders", "")
	require.NoError(t, err)

	u, err := svc.ValidateCredentials(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	// Wrong password and unknown user are the same error.
	_, err = svc.ValidateCredentials(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.ValidateCredentials(ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.ValidateCredentials(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_RecordLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret1", "Alice", "Anders", "")
	require.NoError(t, err)
	before := repo.users["alice"].LastLoginAt

	ts, err := svc.RecordLogin(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, ts.Before(before))

	_, err = svc.RecordLogin(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_GetAndList(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob", "secret2", "Bob", "Baker", "555-0102")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "alice", "secret1", "Alice", "Anders", "555-0101")
	require.NoError(t, err)

	u, err := svc.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "Baker", u.LastName)
	assert.Equal(t, "555-0102", u.Phone)

	_, err = svc.Get(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Reduced projection only: username and display names.
	assert.Equal(t, dom.UserSummary{Username: "alice", FirstName: "Alice", LastName: "Anders"}, list[0])
	assert.Equal(t, dom.UserSummary{Username: "bob", FirstName: "Bob", LastName: "Baker"}, list[1])
}
