package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEmbedder_Deterministic(t *testing.T) {
	e := NewHashEmbedder(0)

	a := e.Embed("Plan the solar shed wiring this weekend")
	b := e.Embed("Plan the solar shed wiring this weekend")

	require.Len(t, a, 384)
	assert.Equal(t, a, b)
}

func TestHashEmbedder_UnitNorm(t *testing.T) {
	e := NewHashEmbedder(0)

	v := e.Embed("some text with enough tokens to produce shingles")

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestHashEmbedder_EmptyTextZeroVector(t *testing.T) {
	e := NewHashEmbedder(0)

	v := e.Embed("")

	require.Len(t, v, 384)
	for _, x := range v {
		assert.Zero(t, x)
	}
}

func TestHashEmbedder_SelfSimilarity(t *testing.T) {
	e := NewHashEmbedder(0)

	v := e.Embed("build a reading habit with twenty minutes each morning")

	assert.GreaterOrEqual(t, Cosine(v, v), 0.99)
}

func TestCosine_Bounds(t *testing.T) {
	e := NewHashEmbedder(0)

	a := e.Embed("gardening and composting projects for spring")
	b := e.Embed("distributed systems consensus protocols")

	got := Cosine(a, b)
	assert.GreaterOrEqual(t, got, -1.000001)
	assert.LessOrEqual(t, got, 1.000001)
}

func TestCosine_MismatchedLengths(t *testing.T) {
	assert.Zero(t, Cosine([]float32{1, 0}, []float32{1, 0, 0}))
}

func TestCosine_ZeroVector(t *testing.T) {
	assert.Zero(t, Cosine([]float32{0, 0, 0}, []float32{1, 0, 0}))
}

func TestEmbedTexts_BatchMatchesSingle(t *testing.T) {
	e := NewHashEmbedder(0)

	texts := []string{"first text here", "second text here"}
	batch := e.EmbedTexts(texts)

	require.Len(t, batch, 2)
	assert.Equal(t, e.Embed(texts[0]), batch[0])
	assert.Equal(t, e.Embed(texts[1]), batch[1])
}
