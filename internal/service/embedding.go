package service

import (
	"math"
	"strings"
)

// DefaultEmbeddingDim is the dimension of the fallback hash embedder.
const DefaultEmbeddingDim = 384

// HashEmbedder maps text to a fixed-dimension vector by hashing 3-token
// shingles into slots and L2-normalizing the result. It is fully deterministic:
// identical input yields bit-identical output across calls, with no model or
// network dependency. Exact semantic embedding is a replaceable upgrade path
// (see the openai package), not part of this contract.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates a HashEmbedder. dim <= 0 selects the default 384.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = DefaultEmbeddingDim
	}
	return &HashEmbedder{dim: dim}
}

// Dim returns the embedder's output dimension.
func (e *HashEmbedder) Dim() int {
	return e.dim
}

// EmbedTexts embeds each text independently.
func (e *HashEmbedder) EmbedTexts(texts []string) [][]float32 {
	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		vectors[i] = e.Embed(t)
	}
	return vectors
}

// Embed produces the bag-of-shingles fingerprint of one text.
func (e *HashEmbedder) Embed(text string) []float32 {
	v := make([]float32, e.dim)

	tokens := strings.Fields(stripNonAlnum(strings.ToLower(text)))
	for i := range tokens {
		gram := tokens[i]
		if i+1 < len(tokens) {
			gram += tokens[i+1]
		}
		if i+2 < len(tokens) {
			gram += tokens[i+2]
		}
		v[hash32(gram)%uint32(e.dim)]++
	}

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		// Zero-norm input stays an all-zero vector.
		norm = 1
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}

// hash32 is an FNV-1a-style 32-bit hash with extra avalanche shifts. The exact
// constants are load-bearing: stored vectors are only comparable to query
// vectors hashed the same way.
func hash32(s string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h += (h << 1) + (h << 4) + (h << 7) + (h << 8) + (h << 24)
	}
	return h
}

// stripNonAlnum replaces every character outside [a-z0-9\s] with a space.
func stripNonAlnum(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r', r == '\f', r == '\v':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// Cosine returns the cosine similarity of two vectors, in [-1, 1]. Mismatched
// lengths or an all-zero operand yield 0 as a defensive default, not an error.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
