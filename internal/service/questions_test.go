package service

import (
	"strings"
	"testing"

	"github.com/kindling-labs/kindling/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateQuestionsForIdea_TopicalIdeaGetsThreeUniquePrompts(t *testing.T) {
	idea := domain.Idea{
		Title: "Customer outreach tracker",
		Blurb: "Track customer conversations and follow up with warm leads before they go cold.",
	}

	got := GenerateQuestionsForIdea(idea)

	require.Len(t, got, 3)
	seen := make(map[string]struct{})
	for _, q := range got {
		_, dup := seen[q]
		assert.False(t, dup, "prompt repeated: %s", q)
		seen[q] = struct{}{}
	}
}

func TestGenerateQuestionsForIdea_UsesTopKeyword(t *testing.T) {
	idea := domain.Idea{
		Title: "Prototype a solar dashboard",
		Blurb: "Build a small prototype dashboard for the solar array, then build more panels.",
	}

	got := GenerateQuestionsForIdea(idea)

	require.NotEmpty(t, got)
	joined := strings.ToLower(strings.Join(got, " "))
	assert.Contains(t, joined, "prototype")
}

func TestGenerateQuestionsForIdea_TopicSelectsTemplates(t *testing.T) {
	idea := domain.Idea{
		Title: "De-risk the migration",
		Blurb: "The biggest unknown is whether the risk of data loss blocks the launch.",
	}

	got := GenerateQuestionsForIdea(idea)

	require.Len(t, got, 3)
	joined := strings.ToLower(strings.Join(got, " "))
	assert.Contains(t, joined, "experiment")
}

func TestGenerateQuestionsForIdea_EmptyIdeaStillReturnsPrompts(t *testing.T) {
	got := GenerateQuestionsForIdea(domain.Idea{})

	require.NotEmpty(t, got)
	for _, q := range got {
		assert.Contains(t, q, "this")
	}
}

func TestTopKeywords_SkipsStopwordsAndShortWords(t *testing.T) {
	got := topKeywords("the quick brown fox is in the garden garden garden", 3)

	require.NotEmpty(t, got)
	assert.Equal(t, "garden", got[0])
	assert.NotContains(t, got, "the")
	assert.NotContains(t, got, "is")
	assert.NotContains(t, got, "in")
}

func TestTopicHint(t *testing.T) {
	assert.Equal(t, "growth", topicHint("find more customers"))
	assert.Equal(t, "shipping", topicHint("launch the mvp"))
	assert.Equal(t, "general", topicHint("miscellaneous musings"))
}
