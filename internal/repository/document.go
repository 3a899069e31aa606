package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/kindling-labs/kindling/internal/domain"
)

// DocumentRepository handles persistence of ingested text documents.
type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// UpsertDocuments inserts documents, replacing rows with the same id.
// Re-running ingestion supersedes prior rows rather than merging.
func (r *DocumentRepository) UpsertDocuments(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO docs (id, text, source) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range docs {
		if _, err := stmt.ExecContext(ctx, d.ID, d.Text, string(d.Source)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetDocumentsByIDs returns the documents matching the given ids, in store order.
// Unknown ids are silently skipped.
func (r *DocumentRepository) GetDocumentsByIDs(ctx context.Context, ids []string) ([]domain.Document, error) {
	if len(ids) == 0 {
		return []domain.Document{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, text, source FROM docs WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// GetDocumentIDsBySource returns the ids of all documents with the given source tag.
func (r *DocumentRepository) GetDocumentIDsBySource(ctx context.Context, source domain.DocumentSource) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM docs WHERE source = ?`, string(source))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIDs(rows)
}

// GetDocumentIDsByPrefix returns the ids of all documents whose id starts with prefix.
func (r *DocumentRepository) GetDocumentIDsByPrefix(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM docs WHERE id LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIDs(rows)
}

// GetAllDocuments returns every stored document in insertion order.
func (r *DocumentRepository) GetAllDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, text, source FROM docs ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDocuments(rows)
}

func scanDocuments(rows *sql.Rows) ([]domain.Document, error) {
	docs := make([]domain.Document, 0, 8)
	for rows.Next() {
		var d domain.Document
		var source string
		if err := rows.Scan(&d.ID, &d.Text, &source); err != nil {
			return nil, err
		}
		d.Source = domain.DocumentSource(source)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func scanIDs(rows *sql.Rows) ([]string, error) {
	ids := make([]string, 0, 8)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// escapeLike escapes LIKE metacharacters so prefixes containing _ match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
