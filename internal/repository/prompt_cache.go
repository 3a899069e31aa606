package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PromptCacheRepository is the write-through cache of generated prompts,
// keyed by idea id. Entries are stored as a JSON array of strings.
type PromptCacheRepository struct {
	db *sql.DB
}

func NewPromptCacheRepository(db *sql.DB) *PromptCacheRepository {
	return &PromptCacheRepository{db: db}
}

// GetCachedPrompts returns the cached prompts for an idea, or nil when absent
// or unreadable. Callers decide hit semantics (only >= 3 entries count).
func (r *PromptCacheRepository) GetCachedPrompts(ctx context.Context, ideaID string) ([]string, error) {
	var dataText string
	err := r.db.QueryRowContext(ctx,
		`SELECT data_text FROM prompts WHERE id = ?`, ideaID).Scan(&dataText)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var prompts []string
	if err := json.Unmarshal([]byte(dataText), &prompts); err != nil {
		// Corrupt cache rows are a miss, not a failure.
		return nil, nil
	}
	return prompts, nil
}

// SetCachedPrompts stores prompts for an idea, replacing any prior entry.
func (r *PromptCacheRepository) SetCachedPrompts(ctx context.Context, ideaID string, prompts []string) error {
	dataText, err := json.Marshal(prompts)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO prompts (id, data_text, updated_at) VALUES (?, ?, ?)`,
		ideaID, string(dataText), time.Now().UnixMilli())
	return err
}

// ClearAllCachedPrompts drops every cache entry.
func (r *PromptCacheRepository) ClearAllCachedPrompts(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM prompts`)
	return err
}

// ClearCachedPromptsForIDs drops cache entries for the given idea ids.
func (r *PromptCacheRepository) ClearCachedPromptsForIDs(ctx context.Context, ideaIDs []string) error {
	if len(ideaIDs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `DELETE FROM prompts WHERE id = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, id := range ideaIDs {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}
