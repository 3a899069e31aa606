package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/kindling-labs/kindling/internal/domain"
)

// ThreadRepository handles persistence of chat threads and their append-only
// messages. Message ids carry a per-thread sequence number allocated from a
// counter row in the same transaction as the insert, so concurrent appends to
// one thread can never collide.
type ThreadRepository struct {
	db *sql.DB
}

func NewThreadRepository(db *sql.DB) *ThreadRepository {
	return &ThreadRepository{db: db}
}

// UpsertThread creates the thread if absent, then unconditionally refreshes
// its title and updated timestamp.
func (r *ThreadRepository) UpsertThread(ctx context.Context, id, title string) (*domain.Thread, error) {
	now := time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO threads (id, title, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at`,
		id, title, now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return nil, err
	}

	return r.GetThread(ctx, id)
}

// GetThread returns a thread by id.
func (r *ThreadRepository) GetThread(ctx context.Context, id string) (*domain.Thread, error) {
	var t domain.Thread
	var createdAt, updatedAt int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, created_at, updated_at FROM threads WHERE id = ?`, id).
		Scan(&t.ID, &t.Title, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrThreadNotFound
	}
	if err != nil {
		return nil, err
	}
	t.CreatedAt = time.UnixMilli(createdAt).UTC()
	t.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &t, nil
}

// ListThreads returns all threads, most recently updated first.
func (r *ThreadRepository) ListThreads(ctx context.Context) ([]domain.Thread, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, created_at, updated_at FROM threads ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	threads := make([]domain.Thread, 0, 8)
	for rows.Next() {
		var t domain.Thread
		var createdAt, updatedAt int64
		if err := rows.Scan(&t.ID, &t.Title, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		t.CreatedAt = time.UnixMilli(createdAt).UTC()
		t.UpdatedAt = time.UnixMilli(updatedAt).UTC()
		threads = append(threads, t)
	}
	return threads, rows.Err()
}

// AppendMessage appends a message to a thread. The message id is derived from
// an atomically incremented per-thread counter ("<threadId>_m<seq>"), allocated
// and consumed inside one transaction.
func (r *ThreadRepository) AppendMessage(ctx context.Context, threadID string, role domain.MessageRole, content string) (*domain.ChatMessage, error) {
	msg := &domain.ChatMessage{
		ThreadID:  threadID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := domain.ValidateChatMessage(msg); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var seq int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO thread_seq (thread_id, seq) VALUES (?, 1)
		 ON CONFLICT(thread_id) DO UPDATE SET seq = seq + 1
		 RETURNING seq`, threadID).Scan(&seq)
	if err != nil {
		return nil, err
	}

	msg.ID = domain.ChatMessageID(threadID, seq)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO thread_messages (id, thread_id, role, content, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.ThreadID, string(msg.Role), msg.Content, msg.CreatedAt.UnixMilli())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return msg, nil
}

// GetMessages returns the most recent `limit` messages of a thread in creation
// order (oldest first). limit <= 0 returns all messages.
func (r *ThreadRepository) GetMessages(ctx context.Context, threadID string, limit int) ([]domain.ChatMessage, error) {
	query := `SELECT id, thread_id, role, content, created_at
		FROM thread_messages WHERE thread_id = ?
		ORDER BY created_at ASC, rowid ASC`
	args := []any{threadID}

	if limit > 0 {
		query = `SELECT id, thread_id, role, content, created_at FROM (
			SELECT id, thread_id, role, content, created_at, rowid AS rid
			FROM thread_messages WHERE thread_id = ?
			ORDER BY created_at DESC, rowid DESC LIMIT ?
		) ORDER BY created_at ASC, rid ASC`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]domain.ChatMessage, 0, 16)
	for rows.Next() {
		var m domain.ChatMessage
		var role string
		var createdAt int64
		if err := rows.Scan(&m.ID, &m.ThreadID, &role, &m.Content, &createdAt); err != nil {
			return nil, err
		}
		m.Role = domain.MessageRole(role)
		m.CreatedAt = time.UnixMilli(createdAt).UTC()
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
