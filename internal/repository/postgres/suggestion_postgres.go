package postgres

import (
	"context"
	"database/sql"

	"appsamples/internal/database"
	"appsamples/internal/model"
	"appsamples/internal/repository"
)

// SuggestionPostgres is a PostgreSQL implementation of repository.SuggestionRepository.
type SuggestionPostgres struct {
	db *sql.DB
}

// NewSuggestionPostgres creates a new SuggestionPostgres repository.
func NewSuggestionPostgres(db *sql.DB) *SuggestionPostgres {
	return &SuggestionPostgres{db: db}
}

var _ repository.SuggestionRepository = (*SuggestionPostgres)(nil)

const insertSuggestion = `
	INSERT INTO suggestions (suggestion, created_at)
	VALUES ($1, $2)
	RETURNING id, suggestion, created_at
`

// Create inserts a keyed suggestion.
func (r *SuggestionPostgres) Create(ctx context.Context, s *model.Suggestion) (*model.Suggestion, error) {
	var out model.Suggestion
	if err := r.db.QueryRowContext(ctx, insertSuggestion, s.Suggestion, s.CreatedAt).Scan(
		&out.ID,
		&out.Suggestion,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateMany inserts all items or none.
func (r *SuggestionPostgres) CreateMany(ctx context.Context, items []model.Suggestion) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, s := range items {
			if _, err := tx.ExecContext(ctx, `INSERT INTO suggestions (suggestion, created_at) VALUES ($1, $2)`,
				s.Suggestion, s.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListFrom pages with a (created_at, id) cursor. Rows sharing the cursor's timestamp continue at its id,
// older rows follow.
func (r *SuggestionPostgres) ListFrom(ctx context.Context, from *repository.SuggestionCursor, limit int) ([]model.Suggestion, error) {
	if from == nil {
		return r.list(ctx, `
			SELECT id, suggestion, created_at, '' FROM suggestions
			ORDER BY created_at DESC, id ASC
			LIMIT $1`, limit)
	}
	return r.list(ctx, `
		SELECT id, suggestion, created_at, '' FROM suggestions
		WHERE created_at < $1 OR (created_at = $1 AND id >= $2)
		ORDER BY created_at DESC, id ASC
		LIMIT $3`, from.CreatedAt, from.ID, limit)
}

// NextContributorCount increments the contributor's counter in a transaction.
func (r *SuggestionPostgres) NextContributorCount(ctx context.Context, email string) (int, error) {
	const q = `
		INSERT INTO contributors (email, count) VALUES ($1, 1)
		ON CONFLICT (email) DO UPDATE SET count = contributors.count + 1
		RETURNING count
	`
	var count int
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, q, email).Scan(&count)
	})
	return count, err
}

// CreateUnique inserts a suggestion keyed by its when string.
func (r *SuggestionPostgres) CreateUnique(ctx context.Context, s *model.Suggestion) (*model.Suggestion, error) {
	const q = `
		INSERT INTO unique_suggestions (suggestion, created_at, when_key)
		VALUES ($1, $2, $3)
		RETURNING id, suggestion, created_at, when_key
	`
	var out model.Suggestion
	if err := r.db.QueryRowContext(ctx, q, s.Suggestion, s.CreatedAt, s.When).Scan(
		&out.ID,
		&out.Suggestion,
		&out.CreatedAt,
		&out.When,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUnique pages by when_key.
func (r *SuggestionPostgres) ListUnique(ctx context.Context, offset string, limit int) ([]model.Suggestion, error) {
	if offset == "" {
		return r.list(ctx, `
			SELECT id, suggestion, created_at, when_key FROM unique_suggestions
			ORDER BY when_key DESC
			LIMIT $1`, limit)
	}
	return r.list(ctx, `
		SELECT id, suggestion, created_at, when_key FROM unique_suggestions
		WHERE when_key <= $1
		ORDER BY when_key DESC
		LIMIT $2`, offset, limit)
}

func (r *SuggestionPostgres) list(ctx context.Context, q string, args ...any) ([]model.Suggestion, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Suggestion, 0)
	for rows.Next() {
		var s model.Suggestion
		if err := rows.Scan(&s.ID, &s.Suggestion, &s.CreatedAt, &s.When); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}
