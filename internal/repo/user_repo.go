package repo

import (
	"context"
	"time"

	dom "github.com/alex-rutan/express-messagely/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides user persistence. Username uniqueness is enforced by
// the primary key constraint, not by a prior lookup.
type UserRepo interface {
	Create(ctx context.Context, username, passwordHash, firstName, lastName, phone string) (dom.User, error)
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	List(ctx context.Context) ([]dom.UserSummary, error)
	TouchLastLogin(ctx context.Context, username string) (time.Time, error)
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// Create inserts a new user and returns it with the stamped timestamps.
func (r *PGUserRepo) Create(ctx context.Context, username, passwordHash, firstName, lastName, phone string) (dom.User, error) {
	query := `
		INSERT INTO users (username, password_hash, first_name, last_name, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING username, password_hash, first_name, last_name, phone, joined_at, last_login_at`
	var u dom.User
	err := r.db.QueryRow(ctx, query, username, passwordHash, firstName, lastName, phone).Scan(
		&u.Username, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone,
		&u.JoinedAt, &u.LastLoginAt,
	)
	return u, err
}

// GetByUsername returns the full user record by username.
func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT username, password_hash, first_name, last_name, phone, joined_at, last_login_at
		 FROM users WHERE username = $1`,
		username,
	).Scan(&u.Username, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone,
		&u.JoinedAt, &u.LastLoginAt)
	return u, err
}

// List returns the directory projection of all users.
func (r *PGUserRepo) List(ctx context.Context) ([]dom.UserSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT username, first_name, last_name FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.UserSummary
	for rows.Next() {
		var s dom.UserSummary
		if err := rows.Scan(&s.Username, &s.FirstName, &s.LastName); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// TouchLastLogin sets last_login_at to now and returns the new value.
func (r *PGUserRepo) TouchLastLogin(ctx context.Context, username string) (time.Time, error) {
	var t time.Time
	err := r.db.QueryRow(ctx,
		`UPDATE users SET last_login_at = NOW() WHERE username = $1 RETURNING last_login_at`,
		username,
	).Scan(&t)
	return t, err
}
