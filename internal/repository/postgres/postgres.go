package postgres

import (
	"database/sql"
	"errors"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// IsNoRowsError reports whether err means the lookup matched nothing.
func IsNoRowsError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
