// Package ingest loads the user's raw text history: a projects JSON file and
// an exported chat transcript in HTML. Both loaders degrade to empty slices on
// missing or unreadable input; ingestion never aborts the pipeline.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/kindling-labs/kindling/internal/domain"
)

// minMessageLen filters out boilerplate fragments from HTML extraction.
const minMessageLen = 40

// LoadProjects reads the projects JSON file. A missing file is an empty
// project list, not an error.
func LoadProjects(path string) ([]domain.Project, error) {
	if path == "" {
		return []domain.Project{}, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []domain.Project{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read projects file: %w", err)
	}

	var rows []struct {
		ID    string   `json:"id"`
		Title string   `json:"title"`
		Blurb string   `json:"blurb"`
		Tags  []string `json:"tags"`
	}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse projects file: %w", err)
	}

	projects := make([]domain.Project, len(rows))
	for i, r := range rows {
		projects[i] = domain.Project{ID: r.ID, Title: r.Title, Blurb: r.Blurb, Tags: r.Tags}
	}
	return projects, nil
}

var (
	titleRe     = regexp.MustCompile(`(?i)<title>([^<]+)</title>`)
	paragraphRe = regexp.MustCompile(`(?is)<(p|li|div)[^>]*>(.*?)</(?:p|li|div)>`)
	brRe        = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagRe       = regexp.MustCompile(`<[^>]+>`)
)

// LoadChatHTML extracts messages from an exported chat transcript. Minimal
// HTML handling on purpose: the document title plus the visible text of
// paragraph-like elements, entity-decoded, keeping fragments of at least 40
// chars. A missing file yields no messages.
func LoadChatHTML(path string) ([]domain.Message, error) {
	if path == "" {
		return []domain.Message{}, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []domain.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read chat transcript: %w", err)
	}

	return ParseChatHTML(string(raw)), nil
}

// ParseChatHTML extracts messages from raw transcript HTML.
func ParseChatHTML(html string) []domain.Message {
	messages := make([]domain.Message, 0, 64)

	if m := titleRe.FindStringSubmatch(html); m != nil {
		title := strings.TrimSpace(m[1])
		messages = append(messages, domain.Message{ID: "t0", Title: title, Text: title})
	}

	idx := 0
	for _, m := range paragraphRe.FindAllStringSubmatch(html, -1) {
		text := cleanFragment(m[2])
		if len([]rune(text)) >= minMessageLen {
			messages = append(messages, domain.Message{ID: fmt.Sprintf("m%d", idx), Text: text})
			idx++
		}
	}
	return messages
}

func cleanFragment(inner string) string {
	s := brRe.ReplaceAllString(inner, "\n")
	s = tagRe.ReplaceAllString(s, "")
	s = decodeEntities(s)
	return strings.TrimSpace(s)
}

func decodeEntities(s string) string {
	r := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
	return r.Replace(s)
}

// LoadAll runs both loaders and combines their output. Loader failures reduce
// to empty input for that source.
func LoadAll(projectsPath, chatPath string) (projects []domain.Project, messages []domain.Message) {
	projects, err := LoadProjects(projectsPath)
	if err != nil {
		projects = []domain.Project{}
	}
	messages, err = LoadChatHTML(chatPath)
	if err != nil {
		messages = []domain.Message{}
	}
	return projects, messages
}
