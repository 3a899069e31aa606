package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKMeans_EmptyInput(t *testing.T) {
	result := KMeans(nil, 3, 8)

	assert.Empty(t, result.Centroids)
	assert.Empty(t, result.Assignments)
}

func TestKMeans_KCappedAtN(t *testing.T) {
	vectors := [][]float32{{1, 0}, {0, 1}}

	result := KMeans(vectors, 5, 8)

	assert.Len(t, result.Centroids, 2)
	assert.Len(t, result.Assignments, 2)
}

func TestKMeans_Deterministic(t *testing.T) {
	vectors := [][]float32{
		{1, 0, 0}, {0.9, 0.1, 0}, {0, 1, 0}, {0.1, 0.9, 0}, {0, 0, 1},
	}

	a := KMeans(vectors, 2, 8)
	b := KMeans(vectors, 2, 8)

	assert.Equal(t, a.Assignments, b.Assignments)
	assert.Equal(t, a.Centroids, b.Centroids)
}

func TestKMeans_SeparatesObviousClusters(t *testing.T) {
	vectors := [][]float32{
		{10, 0}, {10.5, 0.2}, {9.8, -0.1},
		{-10, 0}, {-10.2, 0.3}, {-9.9, 0.1},
	}

	result := KMeans(vectors, 2, 8)

	require.Len(t, result.Assignments, 6)
	assert.Equal(t, result.Assignments[0], result.Assignments[1])
	assert.Equal(t, result.Assignments[0], result.Assignments[2])
	assert.Equal(t, result.Assignments[3], result.Assignments[4])
	assert.Equal(t, result.Assignments[3], result.Assignments[5])
	assert.NotEqual(t, result.Assignments[0], result.Assignments[3])
}

func TestClusterCount(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 3},
		{4, 3},
		{36, 3},
		{100, 5},
		{400, 10},
		{10000, 24},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClusterCount(tt.n), "n=%d", tt.n)
	}
}
