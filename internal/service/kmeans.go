package service

import "math"

// KMeansResult holds the centroids and per-vector cluster assignments of one
// clustering pass. Clusters are transient: produced and consumed within a
// single pipeline invocation, never persisted.
type KMeansResult struct {
	Centroids   [][]float32
	Assignments []int
}

// KMeans partitions vectors into k clusters by iterative centroid refinement.
// Initialization copies the first k input vectors, so the result is fully
// deterministic given input order. The loop runs a fixed iteration count with
// no convergence check, which bounds runtime at the cost of potential
// non-convergence; fine at the corpus sizes this targets. A centroid that ends
// an iteration with no assigned vectors keeps its previous position.
func KMeans(vectors [][]float32, k, iterations int) KMeansResult {
	if len(vectors) == 0 {
		return KMeansResult{Centroids: [][]float32{}, Assignments: []int{}}
	}
	if k > len(vectors) {
		k = len(vectors)
	}
	dim := len(vectors[0])

	centroids := make([][]float32, k)
	for c := 0; c < k; c++ {
		centroids[c] = append([]float32(nil), vectors[c]...)
	}
	assignments := make([]int, len(vectors))

	for it := 0; it < iterations; it++ {
		// Assign: nearest centroid by squared Euclidean distance, ties to the
		// lowest index via strict <.
		for i, v := range vectors {
			best := 0
			bestDist := math.Inf(1)
			for c, centroid := range centroids {
				if d := euclidean2(v, centroid); d < bestDist {
					bestDist = d
					best = c
				}
			}
			assignments[i] = best
		}

		// Update: coordinate-wise mean of assigned vectors.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, v := range vectors {
			a := assignments[i]
			counts[a]++
			for j := 0; j < dim; j++ {
				sums[a][j] += float64(v[j])
			}
		}
		for c := 0; c < k; c++ {
			count := counts[c]
			if count == 0 {
				// Starved centroid stops moving.
				continue
			}
			for j := 0; j < dim; j++ {
				centroids[c][j] = float32(sums[c][j] / float64(count))
			}
		}
	}

	return KMeansResult{Centroids: centroids, Assignments: assignments}
}

// ClusterCount picks k for a corpus of n vectors: clamp(round(sqrt(n)/2), 3, 24).
func ClusterCount(n int) int {
	k := int(math.Round(math.Sqrt(float64(n)) / 2))
	if k < 3 {
		k = 3
	}
	if k > 24 {
		k = 24
	}
	return k
}

func euclidean2(a, b []float32) float64 {
	var s float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		s += d * d
	}
	return s
}
