package service

import (
	"context"
	"sort"

	"github.com/kindling-labs/kindling/internal/domain"
)

// DefaultTopK is the default result count for similarity retrieval.
const DefaultTopK = 8

// RetrievalVectorRepository defines the repository interface for retrieval.
type RetrievalVectorRepository interface {
	GetAllVectors(ctx context.Context) ([]domain.Vector, error)
}

// RetrievalResult is one scored hit of a similarity query.
type RetrievalResult struct {
	ID    string
	Score float64
}

// Retriever answers top-k cosine similarity queries with a full linear scan
// over all stored vectors. No approximate index; at low-thousands corpus scale
// the scan is the documented, deliberate trade.
type Retriever struct {
	vectors RetrievalVectorRepository
}

// NewRetriever creates a new Retriever instance.
func NewRetriever(vectors RetrievalVectorRepository) *Retriever {
	return &Retriever{vectors: vectors}
}

// RetrieveTopK returns up to k stored documents most similar to the query
// vector, sorted by descending cosine similarity. Ties keep storage order.
func (r *Retriever) RetrieveTopK(ctx context.Context, query []float32, k int) ([]RetrievalResult, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	all, err := r.vectors.GetAllVectors(ctx)
	if err != nil {
		return nil, err
	}

	scored := make([]RetrievalResult, len(all))
	for i, v := range all {
		scored[i] = RetrievalResult{ID: v.ID, Score: Cosine(v.Data, query)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}
