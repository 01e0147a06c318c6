package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is created by the last step; its presence means the schema is complete.
const sentinelTable = "public.unique_suggestions"

var steps = []migrationStep{
	{
		Name: "create_table_queue_tasks",
		SQL: `CREATE TABLE IF NOT EXISTS queue_tasks (
  name          TEXT        PRIMARY KEY,
  queue         TEXT        NOT NULL,
  payload       BYTEA       NOT NULL DEFAULT ''::bytea,
  tag           TEXT        NOT NULL DEFAULT '',
  eta           TIMESTAMPTZ NOT NULL DEFAULT now(),
  lease_expires TIMESTAMPTZ,
  retry_count   INTEGER     NOT NULL DEFAULT 0 CHECK (retry_count >= 0),
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_queue_tasks_queue_eta",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_queue_tasks_queue_eta ON queue_tasks (queue, eta);`,
	},
	{
		Name: "create_table_greetings",
		SQL: `CREATE TABLE IF NOT EXISTS greetings (
  id         BIGSERIAL   PRIMARY KEY,
  guestbook  TEXT        NOT NULL,
  author     TEXT        NOT NULL DEFAULT '',
  content    TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_greetings_guestbook_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_greetings_guestbook_created_at ON greetings (guestbook, created_at DESC);`,
	},
	{
		Name: "create_table_tallies",
		SQL: `CREATE TABLE IF NOT EXISTS tallies (
  name  TEXT   PRIMARY KEY,
  count BIGINT NOT NULL DEFAULT 0
);`,
	},
	{
		Name: "create_table_small_images",
		SQL: `CREATE TABLE IF NOT EXISTS small_images (
  name         TEXT        PRIMARY KEY,
  storage_path TEXT        NOT NULL,
  content_type TEXT        NOT NULL,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_task_images",
		SQL: `CREATE TABLE IF NOT EXISTS task_images (
  task_name  TEXT PRIMARY KEY,
  image_name TEXT NOT NULL REFERENCES small_images (name) ON DELETE CASCADE
);`,
	},
	{
		Name: "create_table_counters",
		SQL: `CREATE TABLE IF NOT EXISTS counters (
  name        TEXT    PRIMARY KEY,
  shard_count INTEGER NOT NULL CHECK (shard_count > 0)
);`,
	},
	{
		Name: "create_table_counter_shards",
		SQL: `CREATE TABLE IF NOT EXISTS counter_shards (
  counter TEXT    NOT NULL,
  shard   INTEGER NOT NULL,
  count   BIGINT  NOT NULL DEFAULT 0,
  PRIMARY KEY (counter, shard)
);`,
	},
	{
		Name: "create_table_voters",
		SQL: `CREATE TABLE IF NOT EXISTS voters (
  email           TEXT    PRIMARY KEY,
  count           INTEGER NOT NULL DEFAULT 0,
  has_voted       BOOLEAN NOT NULL DEFAULT false,
  has_added_quote BOOLEAN NOT NULL DEFAULT false
);`,
	},
	{
		Name: "create_table_quotes",
		SQL: `CREATE TABLE IF NOT EXISTS quotes (
  id             BIGSERIAL PRIMARY KEY,
  quote          TEXT      NOT NULL,
  uri            TEXT      NOT NULL DEFAULT '',
  rank           TEXT      NOT NULL DEFAULT '',
  created        INTEGER   NOT NULL DEFAULT 0,
  creation_order TEXT      NOT NULL DEFAULT ' ',
  votesum        INTEGER   NOT NULL DEFAULT 0,
  creator        TEXT      NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_quotes_rank ON quotes (rank DESC);
CREATE INDEX IF NOT EXISTS idx_quotes_creation_order ON quotes (creation_order DESC);
CREATE TABLE IF NOT EXISTS votes (
  quote_id BIGINT  NOT NULL REFERENCES quotes (id) ON DELETE CASCADE,
  voter    TEXT    NOT NULL,
  vote     INTEGER NOT NULL DEFAULT 0 CHECK (vote BETWEEN -1 AND 1),
  PRIMARY KEY (quote_id, voter)
);`,
	},
	{
		Name: "create_table_suggestions",
		SQL: `CREATE TABLE IF NOT EXISTS suggestions (
  id         BIGSERIAL   PRIMARY KEY,
  suggestion TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_suggestions_created_at_id ON suggestions (created_at DESC, id);
CREATE TABLE IF NOT EXISTS contributors (
  email TEXT    PRIMARY KEY,
  count INTEGER NOT NULL DEFAULT 0
);`,
	},
	{
		Name: "create_table_unique_suggestions",
		SQL: `CREATE TABLE IF NOT EXISTS unique_suggestions (
  id         BIGSERIAL   PRIMARY KEY,
  suggestion TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  when_key   TEXT        NOT NULL UNIQUE
);`,
	},
}

// EnsureMigrated checks if the sentinel table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	query := fmt.Sprintf("SELECT to_regclass('%s') IS NOT NULL", sentinelTable)
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.String("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("detail", "schema already exists, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.String("error_message", err.Error()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
