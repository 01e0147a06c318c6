package postgres

import (
	"context"
	"database/sql"

	"appsamples/internal/model"
	"appsamples/internal/repository"
)

// GreetingPostgres is a PostgreSQL implementation of repository.GreetingRepository.
type GreetingPostgres struct {
	db *sql.DB
}

// NewGreetingPostgres creates a new GreetingPostgres repository.
func NewGreetingPostgres(db *sql.DB) *GreetingPostgres {
	return &GreetingPostgres{db: db}
}

var _ repository.GreetingRepository = (*GreetingPostgres)(nil)

// Create inserts a greeting row and returns the stored record.
func (r *GreetingPostgres) Create(ctx context.Context, g *model.Greeting) (*model.Greeting, error) {
	const q = `
		INSERT INTO greetings (guestbook, author, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, guestbook, author, content, created_at
	`
	var out model.Greeting
	if err := r.db.QueryRowContext(ctx, q, g.Guestbook, g.Author, g.Content, g.CreatedAt).Scan(
		&out.ID,
		&out.Guestbook,
		&out.Author,
		&out.Content,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRecent returns the newest greetings of one guestbook.
func (r *GreetingPostgres) ListRecent(ctx context.Context, guestbook string, limit int) ([]model.Greeting, error) {
	const q = `
		SELECT id, guestbook, author, content, created_at
		FROM greetings
		WHERE guestbook = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, guestbook, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Greeting, 0)
	for rows.Next() {
		var g model.Greeting
		if err := rows.Scan(&g.ID, &g.Guestbook, &g.Author, &g.Content, &g.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
