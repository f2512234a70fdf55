// ABOUTME: Lexical embedding model producing L2-normalized term-frequency vectors.
// ABOUTME: Stateless and deterministic; tokens are case-folded alphanumeric runs.
package embeddings

import (
	"math"
	"strings"
	"unicode"

	"github.com/2389-research/munch/internal/models"
)

// Model is a self-contained lexical encoder. It has no vocabulary and no
// corpus statistics, so the zero value is ready to use.
type Model struct{}

// NewModel returns a lexical embedding model.
func NewModel() *Model {
	return &Model{}
}

// Encode returns one normalized term-frequency vector per text.
func (m *Model) Encode(texts []string) []models.SparseVector {
	out := make([]models.SparseVector, len(texts))
	for i, text := range texts {
		out[i] = m.EncodeOne(text)
	}
	return out
}

// EncodeOne encodes a single text. Text without any token yields an empty vector.
func (m *Model) EncodeOne(text string) models.SparseVector {
	vec := make(models.SparseVector)
	for _, tok := range Tokenize(text) {
		vec[tok]++
	}
	return normalize(vec)
}

// Tokenize case-folds text and splits it into maximal runs of letters and digits.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// normalize scales vec in place to unit length. A zero-magnitude vector is
// returned empty.
func normalize(vec models.SparseVector) models.SparseVector {
	var sum float64
	for _, w := range vec {
		sum += w * w
	}
	if sum == 0 {
		return models.SparseVector{}
	}
	norm := math.Sqrt(sum)
	for tok, w := range vec {
		vec[tok] = w / norm
	}
	return vec
}
