package service

import (
	"context"
	"sync"
	"testing"
	"time"

	dom "github.com/alex-rutan/express-messagely/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMessageRepo mimics the Postgres repo, including the foreign key on
// to_username and the conditional read_at update.
type fakeMessageRepo struct {
	mu     sync.Mutex
	users  *fakeUserRepo
	msgs   []dom.Message
	nextID int64
}

func newFakeMessageRepo(users *fakeUserRepo) *fakeMessageRepo {
	return &fakeMessageRepo{users: users, nextID: 1}
}

func (f *fakeMessageRepo) Create(ctx context.Context, fromUsername, toUsername, body string) (dom.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users.users[toUsername]; !ok {
		return dom.Message{}, &pgconn.PgError{Code: "23503", ConstraintName: "messages_to_username_fkey"}
	}
	m := dom.Message{
		ID:           f.nextID,
		FromUsername: fromUsername,
		ToUsername:   toUsername,
		Body:         body,
		SentAt:       time.Now().UTC(),
	}
	f.nextID++
	f.msgs = append(f.msgs, m)
	return m, nil
}

func (f *fakeMessageRepo) GetByID(ctx context.Context, id int64) (dom.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.msgs {
		if m.ID == id {
			return m, nil
		}
	}
	return dom.Message{}, pgx.ErrNoRows
}

func (f *fakeMessageRepo) MarkRead(ctx context.Context, id int64) (dom.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.msgs {
		if m.ID == id && m.ReadAt == nil {
			now := time.Now().UTC()
			f.msgs[i].ReadAt = &now
			return f.msgs[i], nil
		}
	}
	return dom.Message{}, pgx.ErrNoRows
}

func (f *fakeMessageRepo) ListFrom(ctx context.Context, username string) ([]dom.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []dom.Message
	for _, m := range f.msgs {
		if m.FromUsername == username {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) ListTo(ctx context.Context, username string) ([]dom.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []dom.Message
	for _, m := range f.msgs {
		if m.ToUsername == username && m.FromUsername != m.ToUsername {
			out = append(out, m)
		}
	}
	return out, nil
}

func newMessageFixture(t *testing.T) (*MessageService, *fakeUserRepo, *fakeMessageRepo) {
	t.Helper()
	users := newFakeUserRepo()
	ctx := context.Background()
	for _, u := range []struct{ name, first, last, phone string }{
		{"alice", "Alice", "Anders", "555-0101"},
		{"bob", "Bob", "Baker", "555-0102"},
	} {
		_, err := users.Create(ctx, u.name, "x", u.first, u.last, u.phone)
		require.NoError(t, err)
	}
	msgs := newFakeMessageRepo(users)
	return NewMessageService(msgs, users, nil), users, msgs
}

func TestMessageService_Send(t *testing.T) {
	svc, _, _ := newMessageFixture(t)
	ctx := context.Background()

	m, err := svc.Send(ctx, "alice", "bob", "hi")
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.ID)
	assert.Equal(t, "alice", m.FromUsername)
	assert.Equal(t, "bob", m.ToUsername)
	assert.Nil(t, m.ReadAt)
	assert.False(t, m.SentAt.IsZero())

	// Body is trimmed before validation and storage.
	m2, err := svc.Send(ctx, "alice", "bob", "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", m2.Body)
	assert.Greater(t, m2.ID, m.ID)
}

func TestMessageService_Send_EmptyBody(t *testing.T) {
	svc, _, _ := newMessageFixture(t)
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "bob", "")
	assert.ErrorIs(t, err, ErrEmptyBody)
	_, err = svc.Send(ctx, "alice", "bob", "   ")
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestMessageService_Send_UnknownRecipient(t *testing.T) {
	svc, _, _ := newMessageFixture(t)
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "nobody", "hi")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessageService_Get_Enriched(t *testing.T) {
	svc, _, _ := newMessageFixture(t)
	ctx := context.Background()

	sent, err := svc.Send(ctx, "alice", "bob", "hi")
	require.NoError(t, err)

	d, err := svc.Get(ctx, sent.ID)
	require.NoError(t, err)
	assert.Equal(t, dom.UserProfile{Username: "alice", FirstName: "Alice", LastName: "Anders", Phone: "555-0101"}, d.From)
	assert.Equal(t, dom.UserProfile{Username: "bob", FirstName: "Bob", LastName: "Baker", Phone: "555-0102"}, d.To)
	assert.Equal(t, "hi", d.Body)
	assert.Nil(t, d.ReadAt)

	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessageService_MarkRead_Idempotent(t *testing.T) {
	svc, _, _ := newMessageFixture(t)
	ctx := context.Background()

	sent, err := svc.Send(ctx, "alice", "bob", "hi")
	require.NoError(t, err)

	first, err := svc.MarkRead(ctx, sent.ID)
	require.NoError(t, err)
	require.NotNil(t, first.ReadAt)
	assert.False(t, first.ReadAt.Before(first.SentAt), "sent_at <= read_at")

	// A second call does not move read_at.
	second, err := svc.MarkRead(ctx, sent.ID)
	require.NoError(t, err)
	require.NotNil(t, second.ReadAt)
	assert.True(t, first.ReadAt.Equal(*second.ReadAt))

	_, err = svc.MarkRead(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessageService_InboxOutbox(t *testing.T) {
	svc, users, _ := newMessageFixture(t)
	ctx := context.Background()
	_, err := users.Create(ctx, "carol", "x", "Carol", "Clark", "")
	require.NoError(t, err)

	m1, err := svc.Send(ctx, "alice", "bob", "one")
	require.NoError(t, err)
	m2, err := svc.Send(ctx, "bob", "alice", "two")
	require.NoError(t, err)
	m3, err := svc.Send(ctx, "alice", "carol", "three")
	require.NoError(t, err)

	out, err := svc.MessagesFrom(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, m1.ID, out[0].ID)
	assert.Equal(t, "bob", out[0].To.Username)
	assert.Equal(t, m3.ID, out[1].ID)
	assert.Equal(t, "carol", out[1].To.Username)

	in, err := svc.MessagesTo(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, in, 1)
	assert.Equal(t, m2.ID, in[0].ID)
	assert.Equal(t, "bob", in[0].From.Username)
	assert.Equal(t, "555-0102", in[0].From.Phone)
}

// For any user, the outbox and inbox are disjoint and together cover every
// message the user participates in. Self-messages land in the outbox only.
func TestMessageService_PartitionProperty(t *testing.T) {
	svc, _, _ := newMessageFixture(t)
	ctx := context.Background()

	ids := make(map[int64]bool)
	for _, send := range []struct{ from, to, body string }{
		{"alice", "bob", "a"},
		{"bob", "alice", "b"},
		{"alice", "alice", "note to self"},
		{"alice", "bob", "c"},
	} {
		m, err := svc.Send(ctx, send.from, send.to, send.body)
		require.NoError(t, err)
		if m.FromUsername == "alice" || m.ToUsername == "alice" {
			ids[m.ID] = true
		}
	}

	out, err := svc.MessagesFrom(ctx, "alice")
	require.NoError(t, err)
	in, err := svc.MessagesTo(ctx, "alice")
	require.NoError(t, err)

	seen := make(map[int64]int)
	for _, m := range out {
		seen[m.ID]++
	}
	for _, m := range in {
		seen[m.ID]++
	}
	assert.Len(t, seen, len(ids), "union covers every message involving the user")
	for id, n := range seen {
		assert.Equal(t, 1, n, "message %d appears exactly once across inbox and outbox", id)
		assert.True(t, ids[id])
	}
}
