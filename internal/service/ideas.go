package service

import (
	"fmt"

	"github.com/kindling-labs/kindling/internal/domain"
)

const (
	ideaTitleMax = 64
	ideaBlurbMax = 140
)

// ClusterRepresentativeIdeas turns each non-empty cluster into one idea using
// its representative document: the first document, by original order, assigned
// to that cluster. Empty clusters yield nothing. Idea ids are "k<clusterIndex>".
func ClusterRepresentativeIdeas(docs []domain.Document, result KMeansResult) []domain.Idea {
	ideas := make([]domain.Idea, 0, len(result.Centroids))
	for c := range result.Centroids {
		idx := -1
		for i, a := range result.Assignments {
			if a == c {
				idx = i
				break
			}
		}
		if idx == -1 {
			continue
		}

		doc := docs[idx]
		ideas = append(ideas, domain.Idea{
			ID:    fmt.Sprintf("k%d", c),
			Title: domain.Ellipsize(doc.Text, ideaTitleMax),
			Blurb: domain.Ellipsize(doc.Text, ideaBlurbMax),
			Tags:  []string{string(doc.Source)},
		})
	}
	return ideas
}

// ExpandProject yields the project itself as an idea plus four fixed derivative
// sub-ideas, ids "<projectId>_s0".."<projectId>_s3". Sub-ideas share the
// project blurb and gain a "sub" tag.
func ExpandProject(p domain.Project) []domain.Idea {
	prompts := []string{
		fmt.Sprintf("Tiny next step for %s", p.Title),
		fmt.Sprintf("Unblockers for %s (what's unknown?)", p.Title),
		fmt.Sprintf("One-day spike to de-risk %s", p.Title),
		fmt.Sprintf("Next milestone for %s (what good looks like)", p.Title),
	}

	subs := make([]domain.Idea, 0, len(prompts))
	for i, t := range prompts {
		tags := append(append([]string(nil), p.Tags...), "sub")
		subs = append(subs, domain.Idea{
			ID:    fmt.Sprintf("%s_s%d", p.ID, i),
			Title: t,
			Blurb: p.Blurb,
			Tags:  tags,
		})
	}
	return subs
}

// MergeIdeas concatenates the generator outputs in order and deduplicates by
// normalized content key, keeping the first occurrence. Generators listed
// earlier therefore win collisions: project ideas shadow chat-derived
// duplicates because they are merged first.
func MergeIdeas(lists ...[]domain.Idea) []domain.Idea {
	seen := make(map[string]struct{})
	unique := make([]domain.Idea, 0, 64)
	for _, list := range lists {
		for _, idea := range list {
			key := domain.NormalizeKey(idea)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			unique = append(unique, idea)
		}
	}
	return unique
}
