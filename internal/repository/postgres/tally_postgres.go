package postgres

import (
	"context"
	"database/sql"
	"sort"

	"appsamples/internal/database"
	"appsamples/internal/model"
	"appsamples/internal/repository"
)

// TallyPostgres is a PostgreSQL implementation of repository.TallyRepository.
type TallyPostgres struct {
	db *sql.DB
}

// NewTallyPostgres creates a new TallyPostgres repository.
func NewTallyPostgres(db *sql.DB) *TallyPostgres {
	return &TallyPostgres{db: db}
}

var _ repository.TallyRepository = (*TallyPostgres)(nil)

// List returns all tallies.
func (r *TallyPostgres) List(ctx context.Context) ([]model.Tally, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, count FROM tallies ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Tally, 0)
	for rows.Next() {
		var t model.Tally
		if err := rows.Scan(&t.Name, &t.Count); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// IncrementMany upserts every delta in a single transaction. Keys are applied in sorted order so
// concurrent tally workers take row locks in the same sequence.
func (r *TallyPostgres) IncrementMany(ctx context.Context, deltas map[string]int64) error {
	if len(deltas) == 0 {
		return nil
	}
	names := make([]string, 0, len(deltas))
	for name := range deltas {
		names = append(names, name)
	}
	sort.Strings(names)

	const q = `
		INSERT INTO tallies (name, count) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET count = tallies.count + EXCLUDED.count
	`
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, name := range names {
			if _, err := tx.ExecContext(ctx, q, name, deltas[name]); err != nil {
				return err
			}
		}
		return nil
	})
}
