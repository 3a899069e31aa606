package service

import (
	"sort"

	"github.com/kindling-labs/kindling/internal/domain"
)

// Term weights of the composite feed score. The additive four-term structure
// and weights are the contract; individual signals are replaceable.
const (
	relevanceWeight = 0.4
	noveltyWeight   = 0.25
	freshnessWeight = 0.2
	varietyWeight   = 0.25
)

// DefaultFeedSize caps the ranked feed.
const DefaultFeedSize = 60

// ScoreContext carries the signals available when scoring an idea.
type ScoreContext struct {
	// CurrentFocus is the embedding of whatever the user is looking at now.
	// When present (and the idea has a vector), relevance uses real cosine
	// similarity instead of its placeholder.
	CurrentFocus []float32
}

// ScoreIdea computes the composite feed score of one idea. Novelty, freshness
// and variety signals are not wired yet; each uses a deterministic per-idea
// placeholder drawn uniformly from the same numeric range a real signal would
// occupy, so scores stay comparable and ranking stays reproducible.
func ScoreIdea(idea domain.Idea, vec []float32, ctx ScoreContext) float64 {
	relevance := 0.3 * placeholderSignal(idea.ID, "relevance")
	if len(ctx.CurrentFocus) > 0 && len(vec) > 0 {
		relevance = Cosine(ctx.CurrentFocus, vec)
	}

	r := relevanceWeight * relevance
	n := noveltyWeight * placeholderSignal(idea.ID, "novelty")
	f := freshnessWeight * placeholderSignal(idea.ID, "freshness")
	v := varietyWeight * placeholderSignal(idea.ID, "variety")
	return r + n + f + v
}

// RankIdeas orders ideas by descending score and truncates to feedSize.
// feedSize <= 0 selects the default.
func RankIdeas(ideas []domain.Idea, ctx ScoreContext, feedSize int) []domain.Idea {
	if feedSize <= 0 {
		feedSize = DefaultFeedSize
	}

	type scored struct {
		idea  domain.Idea
		score float64
	}
	list := make([]scored, len(ideas))
	for i, idea := range ideas {
		list[i] = scored{idea: idea, score: ScoreIdea(idea, nil, ctx)}
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].score > list[j].score
	})

	out := make([]domain.Idea, 0, feedSize)
	for _, s := range list {
		if len(out) >= feedSize {
			break
		}
		out = append(out, s.idea)
	}
	return out
}

// placeholderSignal maps an idea id and term name to a uniform value in [0, 1).
func placeholderSignal(ideaID, term string) float64 {
	return float64(hash32(ideaID+"|"+term)) / (1 << 32)
}
