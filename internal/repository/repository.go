// Package repository persists documents, vectors, prompt caches, chat threads,
// and news posts in the local SQLite store.
package repository

import (
	"context"
	"database/sql"
)

// dbtx abstracts *sql.DB and *sql.Tx so repositories can run inside transactions.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
