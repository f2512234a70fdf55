// ABOUTME: Food recognition engine mapping free-text descriptions to catalog items.
// ABOUTME: Caches one lexical vector per item and ranks queries by cosine similarity.
package recognition

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/2389-research/munch/internal/embeddings"
	"github.com/2389-research/munch/internal/models"
)

// DefaultTopK is the number of matches returned when callers have no preference.
const DefaultTopK = 3

// exactMatchScore is the score given to a query equal to an item's name or alias.
const exactMatchScore = 1.0

// Engine owns the food catalog and answers nearest-item queries.
// It is not safe for concurrent use when AddCustomItem runs alongside reads.
type Engine struct {
	encoder embeddings.Encoder
	items   []models.FoodItem
	vectors []models.SparseVector
	names   [][]string // normalized name and aliases per item
}

// Option configures an Engine.
type Option func(*Engine)

// WithEncoder replaces the default lexical model. The same encoder is used
// for catalog items and queries.
func WithEncoder(enc embeddings.Encoder) Option {
	return func(e *Engine) {
		e.encoder = enc
	}
}

// NewEngine loads the catalog at path and embeds every item. A missing file
// yields an error matching ErrCatalogNotFound and no engine.
func NewEngine(path string, opts ...Option) (*Engine, error) {
	items, err := LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	e := newEngine(items, opts)
	slog.Debug("catalog loaded", "path", path, "items", len(items))
	return e, nil
}

// NewDefaultEngine builds an engine over the built-in reference catalog.
func NewDefaultEngine(opts ...Option) (*Engine, error) {
	items, err := DefaultItems()
	if err != nil {
		return nil, err
	}
	e := newEngine(items, opts)
	slog.Debug("catalog loaded", "path", DefaultCatalogName, "items", len(items))
	return e, nil
}

// NewEngineFromItems builds an engine over an in-memory catalog.
func NewEngineFromItems(items []models.FoodItem, opts ...Option) *Engine {
	return newEngine(items, opts)
}

func newEngine(items []models.FoodItem, opts []Option) *Engine {
	e := &Engine{encoder: embeddings.NewModel()}
	for _, opt := range opts {
		opt(e)
	}

	reps := make([]string, len(items))
	for i, item := range items {
		reps[i] = ItemRepresentation(item)
	}

	e.items = make([]models.FoodItem, 0, len(items))
	e.names = make([][]string, 0, len(items))
	for _, item := range items {
		e.items = append(e.items, item.Clone())
		e.names = append(e.names, matchNames(item))
	}
	e.vectors = e.encoder.Encode(reps)
	return e
}

// ItemRepresentation is the lower-cased text embedded for an item: its name,
// serving size and aliases joined by spaces.
func ItemRepresentation(item models.FoodItem) string {
	parts := make([]string, 0, 2+len(item.Aliases))
	parts = append(parts, item.Name, item.ServingSize)
	parts = append(parts, item.Aliases...)

	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.ToLower(strings.Join(kept, " "))
}

// KnownItems returns a copy of the catalog in insertion order.
func (e *Engine) KnownItems() []models.FoodItem {
	out := make([]models.FoodItem, len(e.items))
	for i, item := range e.items {
		out[i] = item.Clone()
	}
	return out
}

// AddCustomItem appends item to the catalog and embeds it so the next query
// can match it. Duplicate names are allowed.
func (e *Engine) AddCustomItem(item models.FoodItem) {
	e.items = append(e.items, item.Clone())
	e.names = append(e.names, matchNames(item))
	e.vectors = append(e.vectors, e.encoder.Encode([]string{ItemRepresentation(item)})[0])
}

// Recognise returns up to topK catalog items ranked by similarity to
// description. A blank description or non-positive topK returns nothing.
func (e *Engine) Recognise(description string, topK int) []models.RecognisedFood {
	if isBlank(description) || topK <= 0 {
		return nil
	}
	query := e.encoder.Encode([]string{description})[0]
	return e.rank(description, query, topK)
}

// ScanBulk recognises each description independently, in input order.
func (e *Engine) ScanBulk(descriptions []string, topK int) [][]models.RecognisedFood {
	results := make([][]models.RecognisedFood, len(descriptions))
	if topK <= 0 {
		return results
	}

	var texts []string
	var positions []int
	for i, d := range descriptions {
		if isBlank(d) {
			continue
		}
		texts = append(texts, d)
		positions = append(positions, i)
	}

	for j, vec := range e.encoder.Encode(texts) {
		i := positions[j]
		results[i] = e.rank(descriptions[i], vec, topK)
	}
	return results
}

func (e *Engine) rank(description string, query models.SparseVector, topK int) []models.RecognisedFood {
	normalized := normalizeName(description)

	scores := make([]float64, len(e.vectors))
	for i, vec := range e.vectors {
		score := embeddings.Dot(query, vec)
		if slices.Contains(e.names[i], normalized) {
			score = max(score, exactMatchScore)
		}
		scores[i] = clamp(score)
	}

	ranked := embeddings.Rank(scores, topK)
	results := make([]models.RecognisedFood, len(ranked))
	for i, r := range ranked {
		results[i] = models.RecognisedFood{
			Item:       e.items[r.Index].Clone(),
			Confidence: r.Score,
		}
	}
	return results
}

// matchNames lists the normalized strings that count as an exact match for item.
func matchNames(item models.FoodItem) []string {
	names := make([]string, 0, 1+len(item.Aliases))
	for _, n := range append([]string{item.Name}, item.Aliases...) {
		if n := normalizeName(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// normalizeName lower-cases s and collapses runs of whitespace.
func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func clamp(score float64) float64 {
	return min(max(score, 0), 1)
}
