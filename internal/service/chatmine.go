package service

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kindling-labs/kindling/internal/domain"
)

// chatMineWindow caps how many recent message fragments the miner considers.
const chatMineWindow = 2000

// actionVerbs mark a sentence as likely actionable.
var actionVerbs = []string{
	"build", "ship", "learn", "design", "plan", "fix", "research", "write",
	"explore", "define", "clarify", "organize", "market", "launch", "measure",
}

var (
	imperativeStart = regexp.MustCompile(`^[A-Z][a-z]+\s`)
	imperativeCue   = regexp.MustCompile(`(?i)\bshould\b|\bneed to\b|\bnext\b|\btry\b|\bconsider\b`)
)

// MineIdeasFromMessages scans the most recent chat fragments for sentences that
// read like actionable next steps and promotes the best of them to ideas.
// Sentences outside the 40-180 char card-copy window are excluded; hits on an
// action verb add 0.5, an imperative pattern adds 0.25, and sentences nearer
// the end of the corpus get a recency boost. Candidates are deduplicated by
// normalized-text key and capped at max.
func MineIdeasFromMessages(messages []domain.Message, max int) []domain.Idea {
	recent := messages
	if len(recent) > chatMineWindow {
		recent = recent[len(recent)-chatMineWindow:]
	}

	sentences := make([]string, 0, len(recent))
	for _, m := range recent {
		sentences = append(sentences, SplitSentences(m.Text)...)
	}

	type candidate struct {
		text  string
		score float64
	}
	candidates := make([]candidate, 0, len(sentences))
	total := len(sentences)
	for i, s := range sentences {
		if score := scoreSentence(s, total-i); score > 0 {
			candidates = append(candidates, candidate{text: s, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	seen := make(map[string]struct{}, len(candidates))
	ideas := make([]domain.Idea, 0, max)
	for _, c := range candidates {
		if len(ideas) >= max {
			break
		}
		key := domain.NormalizeText(c.text)
		if len(key) > 100 {
			key = key[:100]
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		ideas = append(ideas, domain.Idea{
			ID:    fmt.Sprintf("c%d", len(ideas)+1),
			Title: domain.Ellipsize(c.text, 80),
			Blurb: domain.Ellipsize(c.text, 160),
			Tags:  []string{"chat"},
		})
	}
	return ideas
}

func scoreSentence(s string, idxFromEnd int) float64 {
	n := len([]rune(s))
	if n < 40 || n > 180 {
		return 0
	}

	score := 1.0
	lower := strings.ToLower(s)
	for _, v := range actionVerbs {
		if strings.Contains(lower, v) {
			score += 0.5
			break
		}
	}
	if imperativeStart.MatchString(s) || imperativeCue.MatchString(s) {
		score += 0.25
	}

	// Sentences within the last ~140 positions score progressively higher.
	recency := 1 + max(0, 0.7-float64(idxFromEnd)*0.005)
	return score * recency
}
