package service

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kindling-labs/kindling/internal/domain"
)

// stopwords excluded from keyword extraction.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "for": {}, "to": {},
	"of": {}, "in": {}, "on": {}, "with": {}, "by": {}, "at": {}, "from": {},
	"is": {}, "are": {}, "be": {}, "as": {}, "it": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "your": {}, "my": {}, "our": {}, "their": {},
	"about": {}, "into": {}, "over": {}, "under": {}, "after": {}, "before": {},
	"how": {}, "what": {}, "why": {}, "when": {}, "where": {},
}

var topicPatterns = []struct {
	tag string
	re  *regexp.Regexp
}{
	{"growth", regexp.MustCompile(`client|customer|lead|sales|market|growth|prospect`)},
	{"learning", regexp.MustCompile(`learn|research|read|study|notes|summary`)},
	{"risk", regexp.MustCompile(`risk|unknown|block|issue|bug|spike`)},
	{"shipping", regexp.MustCompile(`ship|build|design|prototype|mvp|launch`)},
	{"reflection", regexp.MustCompile(`religion|belief|ethic|philosophy`)},
}

// GenerateQuestionsForIdea produces exactly three reflective prompts for an
// idea without any model call: keyword extraction plus topic-keyed templates.
// Used when no language model endpoint is configured.
func GenerateQuestionsForIdea(idea domain.Idea) []string {
	base := idea.Title + ". " + idea.Blurb
	keys := topKeywords(base, 5)
	topic := topicHint(base)

	primary := "this"
	if len(keys) > 0 {
		primary = keys[0]
	}
	secondary := "it"
	if len(keys) > 1 {
		secondary = keys[1]
	}

	var prompts []string
	switch topic {
	case "growth":
		prompts = append(prompts,
			fmt.Sprintf("Who is one real person affected by %s? Send them a 3-line value DM.", secondary),
			fmt.Sprintf("What offer can you deliver this week to validate demand for %s?", primary))
	case "risk":
		prompts = append(prompts,
			fmt.Sprintf("What's the smallest experiment to de-risk %s today?", primary),
			fmt.Sprintf("If %s fails, how would you notice fast? Add that check now.", secondary))
	case "learning":
		prompts = append(prompts,
			fmt.Sprintf("What is the single question about %s you can answer in 30 minutes?", primary),
			fmt.Sprintf("Draft a 5-bullet summary for %s; what's missing?", secondary))
	case "shipping":
		prompts = append(prompts,
			fmt.Sprintf("Define \"done\" for %s in one sentence. What's the smallest shippable step?", primary),
			fmt.Sprintf("Sketch a 1-hour prototype for %s; what will you show?", secondary))
	case "reflection":
		prompts = append(prompts,
			fmt.Sprintf("Which belief around %s is most uncertain? What evidence would move you?", primary),
			fmt.Sprintf("Note one insight that surprised you about %s. Why?", secondary))
	}

	prompts = append(prompts,
		fmt.Sprintf("What is blocking %s right now, and what is the first move to unblock it?", primary))
	for len(prompts) < 3 {
		prompts = append(prompts, fmt.Sprintf("What would \"done\" look like for %s tomorrow?", primary))
	}

	seen := make(map[string]struct{}, len(prompts))
	unique := make([]string, 0, 3)
	for _, p := range prompts {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, p)
		if len(unique) == 3 {
			break
		}
	}
	return unique
}

func topKeywords(text string, k int) []string {
	freq := make(map[string]int)
	order := make([]string, 0, 16)
	for _, w := range strings.Fields(stripNonAlnum(strings.ToLower(text))) {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		if _, ok := freq[w]; !ok {
			order = append(order, w)
		}
		freq[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})
	if len(order) > k {
		order = order[:k]
	}
	return order
}

func topicHint(text string) string {
	lower := strings.ToLower(text)
	for _, tp := range topicPatterns {
		if tp.re.MatchString(lower) {
			return tp.tag
		}
	}
	return "general"
}
