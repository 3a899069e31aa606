package domain

import "strings"

// Idea is a synthesized, user-facing feed item derived from clusters, projects,
// or mined chat sentences.
type Idea struct {
	ID    string
	Title string
	Blurb string
	Tags  []string
}

// Project is an ingested project description. Each project yields one document
// ("proj_<id>") plus a family of feed ideas.
type Project struct {
	ID    string
	Title string
	Blurb string
	Tags  []string
}

// Message is an ingested fragment of the user's chat history.
type Message struct {
	ID        string
	Title     string
	Text      string
	CreatedAt string
}

// NormalizeKey computes the dedup identity of an idea: lowercased,
// punctuation-stripped, whitespace-collapsed title+blurb capped at 120 chars.
// Two ideas with different ids but colliding keys collapse to one.
func NormalizeKey(idea Idea) string {
	s := NormalizeText(idea.Title + " " + idea.Blurb)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}

// NormalizeText lowercases, replaces everything outside [a-z0-9\s] with spaces,
// and collapses runs of whitespace.
func NormalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Ellipsize truncates s to at most max runes, cutting at max-3 and appending
// an ellipsis when over. Strings within the limit come back unchanged.
func Ellipsize(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimRight(string(runes[:max-3]), " ") + "…"
}
