package postgres

import (
	"context"
	"database/sql"
	"errors"

	"appsamples/internal/database"
	"appsamples/internal/model"
	"appsamples/internal/repository"
)

// CounterPostgres is a PostgreSQL implementation of repository.CounterRepository.
type CounterPostgres struct {
	db *sql.DB
}

// NewCounterPostgres creates a new CounterPostgres repository.
func NewCounterPostgres(db *sql.DB) *CounterPostgres {
	return &CounterPostgres{db: db}
}

var _ repository.CounterRepository = (*CounterPostgres)(nil)

// ShardCount reads the counter row, defaulting to model.InitialShards.
func (r *CounterPostgres) ShardCount(ctx context.Context, name string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT shard_count FROM counters WHERE name = $1`, name).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return model.InitialShards, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

// IncrementShard adds delta to a shard, creating it with delta when absent.
func (r *CounterPostgres) IncrementShard(ctx context.Context, name string, shard int, delta int64) error {
	const q = `
		INSERT INTO counter_shards (counter, shard, count) VALUES ($1, $2, $3)
		ON CONFLICT (counter, shard) DO UPDATE SET count = counter_shards.count + EXCLUDED.count
	`
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, q, name, shard, delta)
		return err
	})
}

// Sum totals all shards; an unknown counter sums to zero.
func (r *CounterPostgres) Sum(ctx context.Context, name string) (int64, error) {
	var sum int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(count), 0) FROM counter_shards WHERE counter = $1`, name).Scan(&sum)
	return sum, err
}

// AddShards grows the shard count. A counter without a row starts at InitialShards + n.
func (r *CounterPostgres) AddShards(ctx context.Context, name string, n int) (int, error) {
	const q = `
		INSERT INTO counters (name, shard_count) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET shard_count = counters.shard_count + $3
		RETURNING shard_count
	`
	var count int
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, q, name, model.InitialShards+n, n).Scan(&count)
	})
	return count, err
}
