package jobs

import (
	"context"
	"fmt"
)

// NewsRefresher re-fetches the cached news listings.
type NewsRefresher interface {
	Refresh(ctx context.Context) error
}

// NewsWorker keeps the news cache warm between TTL expiries.
type NewsWorker struct {
	news NewsRefresher
}

func NewNewsWorker(news NewsRefresher) *NewsWorker {
	return &NewsWorker{news: news}
}

// ProcessJobs implements the JobProcessor interface
func (w *NewsWorker) ProcessJobs(ctx context.Context) error {
	if err := w.news.Refresh(ctx); err != nil {
		return fmt.Errorf("news refresh failed: %w", err)
	}
	return nil
}
