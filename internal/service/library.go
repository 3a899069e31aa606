package service

import (
	"context"
	"sync"

	"github.com/kindling-labs/kindling/internal/domain"
	"github.com/kindling-labs/kindling/internal/telemetry"
)

// Library holds the current idea set in memory. The daemon rebuilds it on
// startup and after re-ingestion; handlers and workers read from it. All
// methods are safe for concurrent use.
type Library struct {
	mu    sync.RWMutex
	feed  []domain.Idea
	byID  map[string]domain.Idea
	ideas *IdeaService
}

func NewLibrary(ideas *IdeaService) *Library {
	return &Library{
		byID:  make(map[string]domain.Idea),
		ideas: ideas,
	}
}

// Rebuild re-runs the full pipeline: builds the corpus and cluster ideas, then
// assembles the ranked feed and swaps it in atomically.
func (l *Library) Rebuild(ctx context.Context, data IngestData, scoreCtx ScoreContext) error {
	ctx, span := telemetry.StartSpan(ctx, "Library.Rebuild", telemetry.SpanAttributes{
		Operation: "rebuild",
	})
	defer span.End()

	clusterIdeas, err := l.ideas.BuildClusterIdeas(ctx, data)
	if err != nil {
		span.SetError(err)
		return err
	}

	feed := l.ideas.LoadFromIngest(data, scoreCtx)

	byID := make(map[string]domain.Idea, len(feed)+len(clusterIdeas))
	for _, idea := range feed {
		byID[idea.ID] = idea
	}
	// Cluster representatives are addressable for prompts and chat even when
	// they are not part of the ranked feed.
	for _, idea := range clusterIdeas {
		if _, ok := byID[idea.ID]; !ok {
			byID[idea.ID] = idea
		}
	}

	l.mu.Lock()
	l.feed = feed
	l.byID = byID
	l.mu.Unlock()
	return nil
}

// Feed returns the current ranked feed.
func (l *Library) Feed() []domain.Idea {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Idea, len(l.feed))
	copy(out, l.feed)
	return out
}

// Get looks up an idea by id.
func (l *Library) Get(id string) (domain.Idea, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idea, ok := l.byID[id]
	return idea, ok
}

// Top returns the first n feed ideas.
func (l *Library) Top(n int) []domain.Idea {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n > len(l.feed) {
		n = len(l.feed)
	}
	out := make([]domain.Idea, n)
	copy(out, l.feed[:n])
	return out
}
