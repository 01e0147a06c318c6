package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"appsamples/internal/database"
	"appsamples/internal/model"
)

// uniqueViolation is the Postgres SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

// PostgresQueue stores tasks in the queue_tasks table. Leasing uses FOR UPDATE SKIP LOCKED so that
// concurrent workers never receive the same task while its lease is live.
type PostgresQueue struct {
	db  *sql.DB
	now func() time.Time
}

var _ Queue = (*PostgresQueue)(nil)

// NewPostgresQueue creates a queue backed by db.
func NewPostgresQueue(db *sql.DB) *PostgresQueue {
	return &PostgresQueue{db: db, now: time.Now}
}

func (q *PostgresQueue) Add(ctx context.Context, queue string, tasks ...NewTask) ([]model.Task, error) {
	if queue == "" {
		return nil, ErrQueueRequired
	}
	const stmt = `
		INSERT INTO queue_tasks (name, queue, payload, tag, eta, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	now := q.now().UTC()
	out := make([]model.Task, 0, len(tasks))
	err := database.WithTx(ctx, q.db, func(tx *sql.Tx) error {
		for _, nt := range tasks {
			t := model.Task{
				Name:      nt.Name,
				Queue:     queue,
				Payload:   nt.Payload,
				Tag:       nt.Tag,
				ETA:       now.Add(nt.Countdown),
				CreatedAt: now,
			}
			if t.Name == "" {
				t.Name = uuid.NewString()
			}
			if t.Payload == nil {
				t.Payload = []byte{}
			}
			if _, err := tx.ExecContext(ctx, stmt, t.Name, t.Queue, t.Payload, t.Tag, t.ETA, t.CreatedAt); err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
					return fmt.Errorf("%s: %w", t.Name, ErrTaskExists)
				}
				return fmt.Errorf("insert task %s: %w", t.Name, err)
			}
			out = append(out, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (q *PostgresQueue) Lease(ctx context.Context, queue string, lease time.Duration, max int) ([]model.Task, error) {
	if queue == "" {
		return nil, ErrQueueRequired
	}
	if lease <= 0 || max <= 0 || max > MaxLeaseTasks {
		return nil, ErrInvalidLease
	}
	const stmt = `
		UPDATE queue_tasks
		SET lease_expires = $3, retry_count = retry_count + 1
		WHERE name IN (
			SELECT name FROM queue_tasks
			WHERE queue = $1 AND eta <= $4 AND (lease_expires IS NULL OR lease_expires <= $4)
			ORDER BY eta, name
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING name, queue, payload, tag, eta, lease_expires, retry_count, created_at
	`
	now := q.now().UTC()
	rows, err := q.db.QueryContext(ctx, stmt, queue, max, now.Add(lease), now)
	if err != nil {
		return nil, fmt.Errorf("lease tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var t model.Task
		var expires sql.NullTime
		if err := rows.Scan(&t.Name, &t.Queue, &t.Payload, &t.Tag, &t.ETA, &expires, &t.RetryCount, &t.CreatedAt); err != nil {
			return nil, err
		}
		if expires.Valid {
			t.LeaseExpires = expires.Time
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (q *PostgresQueue) Delete(ctx context.Context, queue string, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	placeholders := make([]string, len(names))
	args := make([]any, 0, len(names)+1)
	args = append(args, queue)
	for i, n := range names {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, n)
	}
	stmt := `DELETE FROM queue_tasks WHERE queue = $1 AND name IN (` + strings.Join(placeholders, ", ") + `)`
	if _, err := q.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	return nil
}

func (q *PostgresQueue) Purge(ctx context.Context, queue string) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM queue_tasks WHERE queue = $1`, queue)
	if err != nil {
		return 0, fmt.Errorf("purge queue: %w", err)
	}
	return res.RowsAffected()
}

func (q *PostgresQueue) Stats(ctx context.Context, queue string) (Stats, error) {
	const stmt = `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE lease_expires > $2)
		FROM queue_tasks
		WHERE queue = $1
	`
	var s Stats
	if err := q.db.QueryRowContext(ctx, stmt, queue, q.now().UTC()).Scan(&s.Tasks, &s.Leased); err != nil {
		return Stats{}, fmt.Errorf("queue stats: %w", err)
	}
	return s, nil
}
