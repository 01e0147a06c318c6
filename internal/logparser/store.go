package logparser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

const keyColumn = "request_log"

// baseColumns is the requests table schema, column name to sqlite type.
var baseColumns = map[string]string{
	"remotehost":       "text",
	"user":             "text",
	"request_time_str": "text",
	"request_time":     "datetime",
	"request_line":     "text",
	"status":           "int",
	"bytes":            "int",
	"referer":          "text",
	"useragent":        "text",
	"host":             "text",
	"ms":               "int",
	"cpu_ms":           "int",
	"api_cpu_ms":       "int",
	"cpm_usd":          "float",
	"queue_name":       "text",
	"task_name":        "text",
	"loading_request":  "boolean",
	"pending_ms":       "int",
	"exit_code":        "int",
	"throttle_code":    "int",
	"method":           "text",
	"path":             "text",
	"querystring":      "text",
	"protocol":         "text",
	"applog":           "text",
	"applog0":          "text",
	"applog1":          "text",
	"applog2":          "text",
	"applog3":          "text",
	"applog4":          "text",
}

// columnOrder keeps the CREATE TABLE statement stable.
var columnOrder = []string{
	"remotehost", "user", "request_time_str", "request_time", "request_line", "status", "bytes",
	"referer", "useragent", "host", "ms", "cpu_ms", "api_cpu_ms", "cpm_usd", "queue_name",
	"task_name", "loading_request", "pending_ms", "exit_code", "throttle_code", "method", "path",
	"querystring", "protocol", "applog", "applog0", "applog1", "applog2", "applog3", "applog4",
}

// extraColumns are the key=value fields that may trail a request line.
var extraColumns = map[string]struct{}{
	"ms": {}, "cpu_ms": {}, "api_cpu_ms": {}, "cpm_usd": {}, "queue_name": {}, "task_name": {},
	"loading_request": {}, "pending_ms": {}, "exit_code": {}, "throttle_code": {},
}

// Store writes rows into the sqlite requests table.
type Store struct {
	db                *sqlx.DB
	discardDuplicates bool
	allowed           map[string]struct{}
}

// Open connects to the sqlite database at path and creates the requests table when missing. With
// discardDuplicates the raw request line becomes the primary key and repeated requests are skipped.
func Open(ctx context.Context, path string, discardDuplicates bool, custom []CustomColumn) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// One writer keeps the per-file transaction on a single connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, discardDuplicates: discardDuplicates, allowed: make(map[string]struct{})}
	for name := range baseColumns {
		s.allowed[name] = struct{}{}
	}
	if discardDuplicates {
		s.allowed[keyColumn] = struct{}{}
	}
	for _, c := range custom {
		s.allowed[c.Name] = struct{}{}
	}

	if _, err := db.ExecContext(ctx, createTableSQL(discardDuplicates, custom)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create requests table: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTableSQL(discardDuplicates bool, custom []CustomColumn) string {
	cols := make([]string, 0, len(columnOrder)+len(custom)+1)
	if discardDuplicates {
		cols = append(cols, keyColumn+" text primary key")
	}
	for _, name := range columnOrder {
		cols = append(cols, name+" "+baseColumns[name])
	}
	for _, c := range custom {
		cols = append(cols, c.Name+" text")
	}
	return "CREATE TABLE IF NOT EXISTS requests (\n  " + strings.Join(cols, ",\n  ") + "\n)"
}

// WithTx runs fn with a RowWriter bound to one transaction, committing when fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(w RowWriter) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&txWriter{store: s, tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w; rollback failed: %v", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type txWriter struct {
	store *Store
	tx    *sqlx.Tx
}

// Insert writes row. Duplicate request lines report false when duplicates are being discarded.
func (w *txWriter) Insert(ctx context.Context, row Row) (bool, error) {
	stmt, args, err := w.store.insertSQL(row)
	if err != nil {
		return false, err
	}
	res, err := w.tx.NamedExecContext(ctx, stmt, args)
	if err != nil {
		var se sqlite3.Error
		if w.store.discardDuplicates && errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
			return false, nil
		}
		return false, fmt.Errorf("insert request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert request: %w", err)
	}
	return n > 0, nil
}

// insertSQL builds a named INSERT for the columns present in row. Column names come from the
// fixed schema or validated custom columns; anything else is rejected.
func (s *Store) insertSQL(row Row) (string, map[string]any, error) {
	names := make([]string, 0, len(row))
	args := make(map[string]any, len(row))
	for k, v := range row {
		if _, ok := s.allowed[k]; !ok {
			return "", nil, fmt.Errorf("unknown column %q", k)
		}
		names = append(names, k)
		args[k] = v
	}
	sort.Strings(names)

	verb := "INSERT"
	if s.discardDuplicates {
		verb = "INSERT OR IGNORE"
	}
	stmt := fmt.Sprintf("%s INTO requests (%s) VALUES (:%s)",
		verb, strings.Join(names, ", "), strings.Join(names, ", :"))
	return stmt, args, nil
}

// Count returns the number of stored requests.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM requests`); err != nil {
		return 0, err
	}
	return n, nil
}
