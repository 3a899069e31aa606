package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/kindling-labs/kindling/internal/database"
	"github.com/stretchr/testify/require"
)

// newTestDB opens an ephemeral in-memory store with the full schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.InitSchema(ctx, db))
	return db
}
