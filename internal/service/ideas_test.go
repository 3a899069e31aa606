package service

import (
	"testing"

	"github.com/kindling-labs/kindling/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandProject_FourSubIdeas(t *testing.T) {
	p := domain.Project{ID: "p1", Title: "Solar shed", Blurb: "Off-grid power.", Tags: []string{"hardware"}}

	subs := ExpandProject(p)

	require.Len(t, subs, 4)
	assert.Equal(t, "p1_s0", subs[0].ID)
	assert.Equal(t, "p1_s3", subs[3].ID)
	assert.Equal(t, "Tiny next step for Solar shed", subs[0].Title)
	for _, s := range subs {
		assert.Equal(t, "Off-grid power.", s.Blurb)
		assert.Contains(t, s.Tags, "hardware")
		assert.Contains(t, s.Tags, "sub")
	}
}

func TestMergeIdeas_DedupFirstSeenWins(t *testing.T) {
	projectIdea := domain.Idea{ID: "p1", Title: "Solar shed", Blurb: "Off-grid power.", Tags: []string{"project"}}
	chatDup := domain.Idea{ID: "c1", Title: "Solar shed", Blurb: "Off-grid power.", Tags: []string{"chat"}}
	other := domain.Idea{ID: "c2", Title: "Bake bread", Blurb: "Weekend sourdough.", Tags: []string{"chat"}}

	merged := MergeIdeas([]domain.Idea{projectIdea}, []domain.Idea{chatDup, other})

	require.Len(t, merged, 2)
	assert.Equal(t, "p1", merged[0].ID)
	assert.Equal(t, "c2", merged[1].ID)
}

func TestMergeIdeas_Idempotent(t *testing.T) {
	ideas := []domain.Idea{
		{ID: "a", Title: "One", Blurb: "First."},
		{ID: "b", Title: "Two", Blurb: "Second."},
	}

	once := MergeIdeas(ideas)
	twice := MergeIdeas(once, once)

	assert.Equal(t, once, twice)
}

func TestClusterRepresentativeIdeas(t *testing.T) {
	docs := []domain.Document{
		{ID: "d0", Text: "Gardening notes about tomato varieties and soil preparation for raised beds.", Source: domain.DocumentSourceChat},
		{ID: "d1", Text: "More gardening follow-up.", Source: domain.DocumentSourceChat},
		{ID: "d2", Text: "Programming side project plan.", Source: domain.DocumentSourceProject},
	}
	result := KMeansResult{
		Centroids:   [][]float32{{0}, {1}},
		Assignments: []int{0, 0, 1},
	}

	ideas := ClusterRepresentativeIdeas(docs, result)

	require.Len(t, ideas, 2)
	assert.Equal(t, "k0", ideas[0].ID)
	assert.Equal(t, "k1", ideas[1].ID)
	// First doc in original order represents the cluster.
	assert.Contains(t, docs[0].Text, ideas[0].Title[:20])
	assert.Equal(t, []string{"chat"}, ideas[0].Tags)
	assert.Equal(t, []string{"project"}, ideas[1].Tags)
}

func TestClusterRepresentativeIdeas_EllipsizesLongText(t *testing.T) {
	long := "This is a deliberately very long document text that should be cut down to the title limit and then again for the blurb limit when turned into an idea representation."
	docs := []domain.Document{{ID: "d0", Text: long, Source: domain.DocumentSourceChat}}
	result := KMeansResult{Centroids: [][]float32{{0}}, Assignments: []int{0}}

	ideas := ClusterRepresentativeIdeas(docs, result)

	require.Len(t, ideas, 1)
	assert.LessOrEqual(t, len([]rune(ideas[0].Title)), 64)
	assert.LessOrEqual(t, len([]rune(ideas[0].Blurb)), 140)
}
