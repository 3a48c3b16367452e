package repo

import (
	"context"

	dom "github.com/alex-rutan/express-messagely/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRepo provides message persistence. Recipient existence is enforced
// by the foreign key constraint; the unread→read transition is a conditional
// update so exactly one call can win.
type MessageRepo interface {
	Create(ctx context.Context, fromUsername, toUsername, body string) (dom.Message, error)
	GetByID(ctx context.Context, id int64) (dom.Message, error)
	MarkRead(ctx context.Context, id int64) (dom.Message, error)
	ListFrom(ctx context.Context, username string) ([]dom.Message, error)
	ListTo(ctx context.Context, username string) ([]dom.Message, error)
}

// PGMessageRepo implements MessageRepo with Postgres.
type PGMessageRepo struct {
	db *pgxpool.Pool
}

// NewPGMessageRepo returns a new PGMessageRepo.
func NewPGMessageRepo(db *pgxpool.Pool) *PGMessageRepo {
	return &PGMessageRepo{db: db}
}

// Create inserts a new message and returns it with id and sent_at stamped.
func (r *PGMessageRepo) Create(ctx context.Context, fromUsername, toUsername, body string) (dom.Message, error) {
	query := `
		INSERT INTO messages (from_username, to_username, body)
		VALUES ($1, $2, $3)
		RETURNING id, from_username, to_username, body, sent_at, read_at`
	var m dom.Message
	err := r.db.QueryRow(ctx, query, fromUsername, toUsername, body).Scan(
		&m.ID, &m.FromUsername, &m.ToUsername, &m.Body, &m.SentAt, &m.ReadAt,
	)
	return m, err
}

// GetByID returns the bare message record.
func (r *PGMessageRepo) GetByID(ctx context.Context, id int64) (dom.Message, error) {
	var m dom.Message
	err := r.db.QueryRow(ctx,
		`SELECT id, from_username, to_username, body, sent_at, read_at
		 FROM messages WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.FromUsername, &m.ToUsername, &m.Body, &m.SentAt, &m.ReadAt)
	return m, err
}

// MarkRead stamps read_at only when it is still NULL. Returns pgx.ErrNoRows
// when the message does not exist or is already read; the caller decides
// which of the two it was.
func (r *PGMessageRepo) MarkRead(ctx context.Context, id int64) (dom.Message, error) {
	query := `
		UPDATE messages SET read_at = NOW()
		WHERE id = $1 AND read_at IS NULL
		RETURNING id, from_username, to_username, body, sent_at, read_at`
	var m dom.Message
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.FromUsername, &m.ToUsername, &m.Body, &m.SentAt, &m.ReadAt,
	)
	return m, err
}

// ListFrom returns all messages sent by the user in send order.
// Self-messages live here, not in ListTo, so the two lists stay disjoint.
func (r *PGMessageRepo) ListFrom(ctx context.Context, username string) ([]dom.Message, error) {
	query := `
		SELECT id, from_username, to_username, body, sent_at, read_at
		FROM messages WHERE from_username = $1 ORDER BY sent_at, id`
	return r.list(ctx, query, username)
}

// ListTo returns all messages received by the user in send order,
// excluding self-messages (they appear in ListFrom).
func (r *PGMessageRepo) ListTo(ctx context.Context, username string) ([]dom.Message, error) {
	query := `
		SELECT id, from_username, to_username, body, sent_at, read_at
		FROM messages WHERE to_username = $1 AND from_username <> to_username
		ORDER BY sent_at, id`
	return r.list(ctx, query, username)
}

func (r *PGMessageRepo) list(ctx context.Context, query, username string) ([]dom.Message, error) {
	rows, err := r.db.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Message
	for rows.Next() {
		var m dom.Message
		if err := rows.Scan(&m.ID, &m.FromUsername, &m.ToUsername, &m.Body,
			&m.SentAt, &m.ReadAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
