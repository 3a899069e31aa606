package jobs

import (
	"context"
	"log"

	"github.com/kindling-labs/kindling/internal/domain"
)

// PrefetchLibrary exposes the slice of the idea library the warmer needs.
type PrefetchLibrary interface {
	Top(n int) []domain.Idea
}

// PromptGenerator runs the prompt ladder for one idea. Generation failures
// surface as an empty slice, never an error.
type PromptGenerator interface {
	GeneratePromptsForIdea(ctx context.Context, ideaID, title, blurb string) []string
}

// PromptCache answers whether an idea already has usable cached prompts.
type PromptCache interface {
	GetCachedPrompts(ctx context.Context, ideaID string) ([]string, error)
}

// PrefetchWorker warms the prompt cache for the top feed ideas so opening an
// idea rarely waits on the model.
type PrefetchWorker struct {
	library PrefetchLibrary
	prompts PromptGenerator
	cache   PromptCache
	topN    int
}

// NewPrefetchWorker creates a PrefetchWorker warming the top n feed ideas.
func NewPrefetchWorker(library PrefetchLibrary, prompts PromptGenerator, cache PromptCache, topN int) *PrefetchWorker {
	if topN <= 0 {
		topN = 10
	}
	return &PrefetchWorker{
		library: library,
		prompts: prompts,
		cache:   cache,
		topN:    topN,
	}
}

// ProcessJobs implements the JobProcessor interface
func (w *PrefetchWorker) ProcessJobs(ctx context.Context) error {
	ideas := w.library.Top(w.topN)
	warmed := 0

	for _, idea := range ideas {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		cached, err := w.cache.GetCachedPrompts(ctx, idea.ID)
		if err == nil && len(cached) >= 3 {
			continue
		}

		if got := w.prompts.GeneratePromptsForIdea(ctx, idea.ID, idea.Title, idea.Blurb); len(got) > 0 {
			warmed++
		}
	}

	if warmed > 0 {
		log.Printf("Prefetched prompts for %d ideas", warmed)
	}
	return nil
}
