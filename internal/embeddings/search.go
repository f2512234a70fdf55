// ABOUTME: Similarity scoring and ranking over sparse term vectors.
// ABOUTME: Dot product doubles as cosine similarity for pre-normalized vectors.
package embeddings

import (
	"math"
	"sort"

	"github.com/2389-research/munch/internal/models"
)

// Ranked is a scored position in a list of candidates.
type Ranked struct {
	Index int
	Score float64
}

// Dot returns the sum over shared tokens of a[t]*b[t]. For two vectors from
// Model.Encode this equals their cosine similarity.
func Dot(a, b models.SparseVector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for tok, wa := range a {
		if wb, ok := b[tok]; ok {
			dot += wa * wb
		}
	}
	return dot
}

// CosineSimilarity computes cosine similarity for vectors that may not be normalized.
func CosineSimilarity(a, b models.SparseVector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var normA, normB float64
	for _, w := range a {
		normA += w * w
	}
	for _, w := range b {
		normB += w * w
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return Dot(a, b) / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Rank orders candidate scores descending and returns at most limit of them.
// Equal scores keep their original order. A non-positive limit returns nil.
func Rank(scores []float64, limit int) []Ranked {
	if limit <= 0 {
		return nil
	}

	ranked := make([]Ranked, len(scores))
	for i, s := range scores {
		ranked[i] = Ranked{Index: i, Score: s}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	limit = min(limit, len(ranked))
	return ranked[:limit]
}
