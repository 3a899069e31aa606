package repository

import (
	"context"
	"database/sql"

	"github.com/kindling-labs/kindling/internal/domain"
)

// NewsRepository caches fetched news posts with a fetch timestamp for TTL checks.
type NewsRepository struct {
	db *sql.DB
}

func NewNewsRepository(db *sql.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// UpsertPosts inserts posts, replacing rows with the same id.
func (r *NewsRepository) UpsertPosts(ctx context.Context, posts []domain.NewsPost) error {
	if len(posts) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO news_posts
			(id, subreddit, title, url, external_url, image_url, self_text, score, created_at, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range posts {
		_, err := stmt.ExecContext(ctx,
			p.ID, p.Subreddit, p.Title, p.URL,
			nullableString(p.ExternalURL), nullableString(p.ImageURL), nullableString(p.SelfText),
			p.Score, p.CreatedAt, p.FetchedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetRecentPosts returns posts fetched at or after the cutoff, highest score first.
func (r *NewsRepository) GetRecentPosts(ctx context.Context, fetchedAfter int64, limit int) ([]domain.NewsPost, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, subreddit, title, url, external_url, image_url, self_text, score, created_at, fetched_at
		 FROM news_posts WHERE fetched_at >= ?
		 ORDER BY score DESC LIMIT ?`, fetchedAfter, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]domain.NewsPost, 0, 32)
	for rows.Next() {
		var p domain.NewsPost
		var externalURL, imageURL, selfText sql.NullString
		if err := rows.Scan(&p.ID, &p.Subreddit, &p.Title, &p.URL,
			&externalURL, &imageURL, &selfText, &p.Score, &p.CreatedAt, &p.FetchedAt); err != nil {
			return nil, err
		}
		p.ExternalURL = externalURL.String
		p.ImageURL = imageURL.String
		p.SelfText = selfText.String
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// DeletePostsFetchedBefore evicts cache rows older than the cutoff.
func (r *NewsRepository) DeletePostsFetchedBefore(ctx context.Context, cutoff int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM news_posts WHERE fetched_at < ?`, cutoff)
	return err
}
