package service

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kindling-labs/kindling/internal/domain"
)

// DefaultChunkMaxLen bounds the length of a message chunk in characters.
const DefaultChunkMaxLen = 600

// ChunkMessages splits each message into sentence-bounded chunks of at most
// maxLen characters. A single sentence longer than maxLen is kept whole as its
// own oversized chunk rather than hard-truncated. Chunk ids are
// "<messageId>_<index>", zero-based, in original order.
func ChunkMessages(messages []domain.Message, maxLen int) []domain.Document {
	if maxLen <= 0 {
		maxLen = DefaultChunkMaxLen
	}

	docs := make([]domain.Document, 0, len(messages))
	for _, m := range messages {
		for i, text := range splitByLength(m.Text, maxLen) {
			docs = append(docs, domain.Document{
				ID:     fmt.Sprintf("%s_%d", m.ID, i),
				Text:   text,
				Source: domain.DocumentSourceChat,
			})
		}
	}
	return docs
}

// ChunkProjects maps each project to a single document: id "proj_<projectId>",
// text "<title>. <blurb>". Projects are never split.
func ChunkProjects(projects []domain.Project) []domain.Document {
	docs := make([]domain.Document, 0, len(projects))
	for _, p := range projects {
		docs = append(docs, domain.Document{
			ID:     "proj_" + p.ID,
			Text:   p.Title + ". " + p.Blurb,
			Source: domain.DocumentSourceProject,
		})
	}
	return docs
}

func splitByLength(input string, maxLen int) []string {
	if len([]rune(input)) <= maxLen {
		return []string{strings.TrimSpace(input)}
	}

	chunks := make([]string, 0, 4)
	var cur strings.Builder
	curLen := 0

	for _, s := range SplitSentences(input) {
		sLen := len([]rune(s))
		if curLen+sLen+1 > maxLen {
			if curLen > 0 {
				chunks = append(chunks, strings.TrimSpace(cur.String()))
			}
			cur.Reset()
			cur.WriteString(s)
			curLen = sLen
		} else {
			if curLen > 0 {
				cur.WriteByte(' ')
				curLen++
			}
			cur.WriteString(s)
			curLen += sLen
		}
	}
	if curLen > 0 {
		chunks = append(chunks, strings.TrimSpace(cur.String()))
	}

	out := chunks[:0]
	for _, c := range chunks {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// SplitSentences splits text after '.', '!' or '?' followed by whitespace.
// Terminators stay attached to their sentence; separating whitespace is dropped.
func SplitSentences(text string) []string {
	sentences := make([]string, 0, 8)
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			s := strings.TrimSpace(string(runes[start : i+1]))
			if s != "" {
				sentences = append(sentences, s)
			}
			// Skip the run of whitespace after the terminator.
			j := i + 1
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			start = j
			i = j - 1
		}
	}
	if start < len(runes) {
		s := strings.TrimSpace(string(runes[start:]))
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
