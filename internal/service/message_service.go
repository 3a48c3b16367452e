package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alex-rutan/express-messagely/internal/cache"
	dom "github.com/alex-rutan/express-messagely/internal/domain"
	"github.com/alex-rutan/express-messagely/internal/repo"
	"github.com/alex-rutan/express-messagely/internal/utils"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrEmptyBody = errors.New("message body required")
)

// MessageService is the ledger: it appends messages, serves enriched reads
// and owns the single unread→read transition. Profile enrichment goes
// through explicit directory lookups, not SQL joins, so the contract holds
// regardless of storage layout.
type MessageService struct {
	repo  repo.MessageRepo
	users repo.UserRepo
	cache *cache.MessageCache
	sf    singleflight.Group
}

// NewMessageService creates a MessageService. If c is nil, caching is disabled.
func NewMessageService(r repo.MessageRepo, users repo.UserRepo, c *cache.MessageCache) *MessageService {
	return &MessageService{repo: r, users: users, cache: c}
}

// Send appends a message from one user to another. The sender is assumed
// pre-validated by session resolution; the recipient is checked by the
// insert's foreign key.
func (s *MessageService) Send(ctx context.Context, fromUsername, toUsername, body string) (dom.Message, error) {
	toUsername = strings.TrimSpace(toUsername)
	body = strings.TrimSpace(body)
	if body == "" {
		return dom.Message{}, ErrEmptyBody
	}
	m, err := s.repo.Create(ctx, fromUsername, toUsername, body)
	if err != nil {
		if utils.IsPGForeignKeyViolation(err) {
			return dom.Message{}, ErrNotFound
		}
		return dom.Message{}, err
	}
	s.invalidateCache(ctx, m.FromUsername, m.ToUsername)
	return m, nil
}

// Get returns the message enriched with both participants' profiles.
func (s *MessageService) Get(ctx context.Context, id int64) (dom.MessageDetail, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.MessageDetail{}, ErrNotFound
		}
		return dom.MessageDetail{}, err
	}
	profiles := newProfileLookup(s.users)
	from, err := profiles.get(ctx, m.FromUsername)
	if err != nil {
		return dom.MessageDetail{}, err
	}
	to, err := profiles.get(ctx, m.ToUsername)
	if err != nil {
		return dom.MessageDetail{}, err
	}
	return dom.MessageDetail{
		ID:     m.ID,
		From:   from,
		To:     to,
		Body:   m.Body,
		SentAt: m.SentAt,
		ReadAt: m.ReadAt,
	}, nil
}

// MarkRead stamps read_at if it is not set yet. Repeated calls return the
// message with the original read_at unchanged.
func (s *MessageService) MarkRead(ctx context.Context, id int64) (dom.Message, error) {
	m, err := s.repo.MarkRead(ctx, id)
	if err == nil {
		s.invalidateCache(ctx, m.FromUsername, m.ToUsername)
		return m, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return dom.Message{}, err
	}
	// No transition happened: either already read (fine) or no such message.
	m, err = s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Message{}, ErrNotFound
		}
		return dom.Message{}, err
	}
	return m, nil
}

// MessagesFrom returns the user's outbox enriched with recipient profiles.
func (s *MessageService) MessagesFrom(ctx context.Context, username string) ([]dom.SentMessage, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("outbox:"+username, func() (interface{}, error) {
			if list, err := s.cache.GetOutbox(ctx, username); err == nil && list != nil {
				return list, nil
			}
			list, err := s.messagesFrom(ctx, username)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetOutbox(ctx, username, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.SentMessage), nil
	}
	return s.messagesFrom(ctx, username)
}

// MessagesTo returns the user's inbox enriched with sender profiles.
func (s *MessageService) MessagesTo(ctx context.Context, username string) ([]dom.ReceivedMessage, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("inbox:"+username, func() (interface{}, error) {
			if list, err := s.cache.GetInbox(ctx, username); err == nil && list != nil {
				return list, nil
			}
			list, err := s.messagesTo(ctx, username)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetInbox(ctx, username, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.ReceivedMessage), nil
	}
	return s.messagesTo(ctx, username)
}

func (s *MessageService) messagesFrom(ctx context.Context, username string) ([]dom.SentMessage, error) {
	msgs, err := s.repo.ListFrom(ctx, username)
	if err != nil {
		return nil, err
	}
	profiles := newProfileLookup(s.users)
	out := make([]dom.SentMessage, 0, len(msgs))
	for _, m := range msgs {
		to, err := profiles.get(ctx, m.ToUsername)
		if err != nil {
			return nil, err
		}
		out = append(out, dom.SentMessage{
			ID: m.ID, To: to, Body: m.Body, SentAt: m.SentAt, ReadAt: m.ReadAt,
		})
	}
	return out, nil
}

func (s *MessageService) messagesTo(ctx context.Context, username string) ([]dom.ReceivedMessage, error) {
	msgs, err := s.repo.ListTo(ctx, username)
	if err != nil {
		return nil, err
	}
	profiles := newProfileLookup(s.users)
	out := make([]dom.ReceivedMessage, 0, len(msgs))
	for _, m := range msgs {
		from, err := profiles.get(ctx, m.FromUsername)
		if err != nil {
			return nil, err
		}
		out = append(out, dom.ReceivedMessage{
			ID: m.ID, From: from, Body: m.Body, SentAt: m.SentAt, ReadAt: m.ReadAt,
		})
	}
	return out, nil
}

func (s *MessageService) invalidateCache(ctx context.Context, usernames ...string) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, usernames...)
	}
}

// profileLookup memoizes directory lookups within one enrichment pass.
type profileLookup struct {
	users repo.UserRepo
	seen  map[string]dom.UserProfile
}

func newProfileLookup(users repo.UserRepo) *profileLookup {
	return &profileLookup{users: users, seen: make(map[string]dom.UserProfile)}
}

func (l *profileLookup) get(ctx context.Context, username string) (dom.UserProfile, error) {
	if p, ok := l.seen[username]; ok {
		return p, nil
	}
	u, err := l.users.GetByUsername(ctx, username)
	if err != nil {
		return dom.UserProfile{}, fmt.Errorf("profile lookup for %q: %w", username, err)
	}
	p := u.Profile()
	l.seen[username] = p
	return p, nil
}
