package repository

import (
	"context"
	"testing"

	"github.com/kindling-labs/kindling/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDocuments(t *testing.T, repo *DocumentRepository, docs []domain.Document) {
	t.Helper()
	require.NoError(t, repo.UpsertDocuments(context.Background(), docs))
}

func TestDocumentRepository_UpsertReplacesByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	seedDocuments(t, repo, []domain.Document{
		{ID: "d1", Text: "original", Source: domain.DocumentSourceChat},
	})
	seedDocuments(t, repo, []domain.Document{
		{ID: "d1", Text: "replaced", Source: domain.DocumentSourceProject},
	})

	got, err := repo.GetDocumentsByIDs(ctx, []string{"d1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "replaced", got[0].Text)
	assert.Equal(t, domain.DocumentSourceProject, got[0].Source)
}

func TestDocumentRepository_GetByIDsSkipsUnknown(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	seedDocuments(t, repo, []domain.Document{
		{ID: "d1", Text: "one", Source: domain.DocumentSourceChat},
		{ID: "d2", Text: "two", Source: domain.DocumentSourceChat},
	})

	got, err := repo.GetDocumentsByIDs(ctx, []string{"d2", "missing"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "d2", got[0].ID)

	empty, err := repo.GetDocumentsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDocumentRepository_GetIDsBySource(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	seedDocuments(t, repo, []domain.Document{
		{ID: "c1", Text: "chat one", Source: domain.DocumentSourceChat},
		{ID: "p1", Text: "project one", Source: domain.DocumentSourceProject},
		{ID: "c2", Text: "chat two", Source: domain.DocumentSourceChat},
	})

	got, err := repo.GetDocumentIDsBySource(ctx, domain.DocumentSourceChat)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c1", "c2"}, got)
}

func TestDocumentRepository_GetIDsByPrefixEscapesUnderscore(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	// "thread_t1_" must match literally, not as LIKE wildcards: "threadXt1Y"
	// would match an unescaped pattern.
	seedDocuments(t, repo, []domain.Document{
		{ID: "thread_t1_m1", Text: "in thread", Source: domain.DocumentSourceThread},
		{ID: "thread_t1_m2", Text: "also in thread", Source: domain.DocumentSourceThread},
		{ID: "threadXt1Ym9", Text: "decoy", Source: domain.DocumentSourceThread},
		{ID: "thread_t10_m1", Text: "other thread", Source: domain.DocumentSourceThread},
	})

	got, err := repo.GetDocumentIDsByPrefix(ctx, "thread_t1_")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"thread_t1_m1", "thread_t1_m2"}, got)
}

func TestDocumentRepository_GetAllDocumentsInInsertionOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	seedDocuments(t, repo, []domain.Document{
		{ID: "b", Text: "second alphabetically", Source: domain.DocumentSourceChat},
		{ID: "a", Text: "first alphabetically", Source: domain.DocumentSourceChat},
	})

	got, err := repo.GetAllDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}
