package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alex-rutan/express-messagely/internal/cache"
	dom "github.com/alex-rutan/express-messagely/internal/domain"
	"github.com/alex-rutan/express-messagely/internal/repo"
	"github.com/alex-rutan/express-messagely/internal/utils"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
)

var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrUsernameTaken = errors.New("username already taken")
var ErrMissingFields = errors.New("username and password required")

// UserService handles registration, credential checks and directory reads.
type UserService struct {
	repo  repo.UserRepo
	cache *cache.DirectoryCache
	sf    singleflight.Group
}

// NewUserService returns a new UserService. If c is nil, caching is disabled.
func NewUserService(repo repo.UserRepo, c *cache.DirectoryCache) *UserService {
	return &UserService{repo: repo, cache: c}
}

// Register creates a new user with a hashed password. Uniqueness is decided
// by the insert itself, so two concurrent registrations of the same name
// cannot both succeed.
func (s *UserService) Register(ctx context.Context, username, password, firstName, lastName, phone string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrMissingFields
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, username, string(hash),
		strings.TrimSpace(firstName), strings.TrimSpace(lastName), strings.TrimSpace(phone))
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrUsernameTaken
		}
		return dom.User{}, err
	}
	s.invalidateCache(ctx)
	return u, nil
}

// ValidateCredentials checks username and password; returns the user if valid.
// A missing user and a wrong password are indistinguishable to the caller.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// RecordLogin updates last_login_at for an existing user and returns the
// new timestamp.
func (s *UserService) RecordLogin(ctx context.Context, username string) (time.Time, error) {
	t, err := s.repo.TouchLastLogin(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, err
	}
	return t, nil
}

// Get returns the full profile by username.
func (s *UserService) Get(ctx context.Context, username string) (dom.User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// List returns the directory projection of all users.
func (s *UserService) List(ctx context.Context) ([]dom.UserSummary, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("directory", func() (interface{}, error) {
			if list, err := s.cache.Get(ctx); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx)
			if err != nil {
				return nil, err
			}
			_ = s.cache.Set(ctx, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.UserSummary), nil
	}
	return s.repo.List(ctx)
}

func (s *UserService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
	}
}
