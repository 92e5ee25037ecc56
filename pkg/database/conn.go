package database

import (
	"context"
	"database/sql"
)

// Conn executes raw SQL on a single session. *sql.DB, *sql.Conn and *sql.Tx satisfy it.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
