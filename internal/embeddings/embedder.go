// ABOUTME: Encoder interface for turning text into comparable sparse vectors.
// ABOUTME: Implemented by the lexical term-frequency Model in this package.
package embeddings

import "github.com/2389-research/munch/internal/models"

// Encoder turns texts into normalized sparse vectors.
type Encoder interface {
	// Encode returns one vector per input text, in input order.
	Encode(texts []string) []models.SparseVector
}
