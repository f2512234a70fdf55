// ABOUTME: Tests for the food recognition engine and catalog loading.
// ABOUTME: Uses small temp catalogs so ranking expectations stay easy to reason about.
package recognition

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389-research/munch/internal/models"
)

const testCatalog = `[
  {
    "name": "Grilled Chicken Breast",
    "serving_size": "100g",
    "calories": 165,
    "macronutrients": {"protein": 31, "fat": 3.6, "carbs": 0},
    "aliases": ["grilled chicken", "chicken breast"]
  },
  {
    "name": "Greek Yogurt",
    "serving_size": "170g",
    "calories": 100,
    "macronutrients": {"protein": 17, "fat": 0.7, "carbs": 6}
  }
]`

func writeCatalog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(writeCatalog(t, "foods.json", testCatalog))
	require.NoError(t, err)
	return e
}

func TestNewDefaultEngine(t *testing.T) {
	e, err := NewDefaultEngine()
	require.NoError(t, err)
	assert.NotEmpty(t, e.KnownItems())
}

func TestNewEngineCustomPath(t *testing.T) {
	e := newTestEngine(t)
	items := e.KnownItems()
	require.Len(t, items, 2)
	assert.Equal(t, "Grilled Chicken Breast", items[0].Name)
	assert.Equal(t, "Greek Yogurt", items[1].Name)
	assert.Empty(t, items[1].Aliases)
}

func TestNewEngineNonexistentFile(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "nonexistent.json"))
	require.Error(t, err)
	assert.Nil(t, e)
	assert.True(t, errors.Is(err, ErrCatalogNotFound), "expected not-found error, got %v", err)
}

func TestNewEngineMalformedFile(t *testing.T) {
	e, err := NewEngine(writeCatalog(t, "foods.json", `{"not": "a list"`))
	require.Error(t, err)
	assert.Nil(t, e)
	assert.False(t, errors.Is(err, ErrCatalogNotFound))
}

func TestNewEngineInvalidItem(t *testing.T) {
	_, err := NewEngine(writeCatalog(t, "foods.json", `[{"name": "", "calories": 10}]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidItem))

	_, err = NewEngine(writeCatalog(t, "foods.json", `[{"name": "Bad", "calories": -1}]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidItem))
}

func TestNewEngineYAMLNonFiniteValues(t *testing.T) {
	for _, doc := range []string{
		"- name: Weird\n  calories: .nan\n",
		"- name: Weird\n  calories: .inf\n",
		"- name: Weird\n  calories: 10\n  macronutrients:\n    fat: .nan\n",
	} {
		_, err := NewEngine(writeCatalog(t, "foods.yaml", doc))
		require.Error(t, err, "catalog %q", doc)
		assert.True(t, errors.Is(err, ErrInvalidItem), "catalog %q", doc)
	}
}

func TestNewEngineYAMLCatalog(t *testing.T) {
	path := writeCatalog(t, "foods.yaml", `
- name: Banana
  serving_size: 1 medium
  calories: 105
  macronutrients:
    carbs: 27
  aliases: [plantain]
`)
	e, err := NewEngine(path)
	require.NoError(t, err)

	items := e.KnownItems()
	require.Len(t, items, 1)
	assert.Equal(t, "Banana", items[0].Name)
	assert.Equal(t, 27.0, items[0].Macronutrients["carbs"])
	assert.Equal(t, []string{"plantain"}, items[0].Aliases)
}

func TestRecogniseExactMatch(t *testing.T) {
	e := newTestEngine(t)
	for _, q := range []string{"Grilled Chicken Breast", "grilled chicken breast", "  GRILLED   chicken breast "} {
		results := e.Recognise(q, 1)
		require.Len(t, results, 1, "query %q", q)
		assert.Equal(t, "Grilled Chicken Breast", results[0].Item.Name)
		assert.GreaterOrEqual(t, results[0].Confidence, 0.99, "query %q", q)
	}
}

func TestRecognisePartialMatch(t *testing.T) {
	e := newTestEngine(t)
	results := e.Recognise("chicken", 1)
	require.Len(t, results, 1)
	assert.Equal(t, "Grilled Chicken Breast", results[0].Item.Name)
	assert.Greater(t, results[0].Confidence, 0.0)
	assert.Less(t, results[0].Confidence, 0.99)
}

func TestRecogniseAliasMatch(t *testing.T) {
	e := newTestEngine(t)
	results := e.Recognise("grilled chicken", 1)
	require.Len(t, results, 1)
	assert.True(t, strings.Contains(strings.ToLower(results[0].Item.Name), "chicken"))
	assert.GreaterOrEqual(t, results[0].Confidence, 0.99)
}

func TestRecogniseReturnsTopK(t *testing.T) {
	e := newTestEngine(t)
	assert.LessOrEqual(t, len(e.Recognise("chicken", 2)), 2)
	assert.Len(t, e.Recognise("chicken", 10), 2)
}

func TestRecogniseNonPositiveTopK(t *testing.T) {
	e := newTestEngine(t)
	assert.Empty(t, e.Recognise("chicken", 0))
	assert.Empty(t, e.Recognise("chicken", -1))
}

func TestRecogniseEmptyDescription(t *testing.T) {
	e := newTestEngine(t)
	assert.Empty(t, e.Recognise("", DefaultTopK))
	assert.Empty(t, e.Recognise("   ", DefaultTopK))
	assert.Empty(t, e.Recognise("\t\n", DefaultTopK))
}

func TestRecogniseSortedByConfidence(t *testing.T) {
	e := newTestEngine(t)
	e.AddCustomItem(models.FoodItem{Name: "Chicken Soup", ServingSize: "1 bowl", Calories: 90})
	results := e.Recognise("chicken", 5)
	require.Len(t, results, 3)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Confidence, results[i].Confidence)
	}
}

func TestRecogniseNoOverlapStillRanks(t *testing.T) {
	e := newTestEngine(t)
	results := e.Recognise("zucchini", 5)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, 0.0, r.Confidence)
	}
	// ties keep catalog order
	assert.Equal(t, "Grilled Chicken Breast", results[0].Item.Name)
	assert.Equal(t, "Greek Yogurt", results[1].Item.Name)
}

func TestRecogniseConfidenceRange(t *testing.T) {
	e := newTestEngine(t)
	for _, q := range []string{"chicken", "greek yogurt 170g", "grilled chicken breast", "nothing matches"} {
		for _, r := range e.Recognise(q, 5) {
			assert.GreaterOrEqual(t, r.Confidence, 0.0)
			assert.LessOrEqual(t, r.Confidence, 1.0)
		}
	}
}

func TestKnownItemsReturnsCopy(t *testing.T) {
	e := newTestEngine(t)
	items := e.KnownItems()
	items[0].Name = "Mutated"
	items[0].Macronutrients["protein"] = 0
	_ = append(items, models.FoodItem{Name: "Extra"})

	fresh := e.KnownItems()
	require.Len(t, fresh, 2)
	assert.Equal(t, "Grilled Chicken Breast", fresh[0].Name)
	assert.Equal(t, 31.0, fresh[0].Macronutrients["protein"])
}

func TestAddCustomItem(t *testing.T) {
	e := newTestEngine(t)
	initial := len(e.KnownItems())

	custom := models.FoodItem{
		Name:           "Custom Food",
		ServingSize:    "1 serving",
		Calories:       150,
		Macronutrients: map[string]float64{"protein": 10},
	}
	e.AddCustomItem(custom)

	items := e.KnownItems()
	assert.Len(t, items, initial+1)
	assert.True(t, models.ContainsItem(items, custom))
	assert.True(t, items[len(items)-1].Equal(custom), "custom item should be appended last")
}

func TestAddCustomItemRecognisable(t *testing.T) {
	e := newTestEngine(t)
	e.AddCustomItem(models.FoodItem{
		Name:           "Custom Protein Bar",
		ServingSize:    "1 bar",
		Calories:       200,
		Macronutrients: map[string]float64{"protein": 20},
	})

	results := e.Recognise("Custom Protein Bar", 1)
	require.Len(t, results, 1)
	assert.Equal(t, "Custom Protein Bar", results[0].Item.Name)
	assert.GreaterOrEqual(t, results[0].Confidence, 0.99)
}

func TestAddCustomItemDuplicateName(t *testing.T) {
	e := newTestEngine(t)
	e.AddCustomItem(models.FoodItem{Name: "Greek Yogurt", ServingSize: "1 cup", Calories: 150})

	items := e.KnownItems()
	assert.Len(t, items, 3)

	results := e.Recognise("greek yogurt", 2)
	require.Len(t, results, 2)
	assert.Equal(t, "170g", results[0].Item.ServingSize, "earlier item wins ties")
	assert.Equal(t, "1 cup", results[1].Item.ServingSize)
}

func TestScanBulk(t *testing.T) {
	e := newTestEngine(t)
	descriptions := []string{"chicken", "yogurt", "", "grilled chicken breast"}

	results := e.ScanBulk(descriptions, DefaultTopK)
	require.Len(t, results, len(descriptions))
	for i, d := range descriptions {
		assert.Equal(t, e.Recognise(d, DefaultTopK), results[i], "description %q", d)
	}
	assert.Empty(t, results[2])
}

func TestScanBulkTopK(t *testing.T) {
	e := newTestEngine(t)
	for _, k := range []int{1, 2, 5} {
		results := e.ScanBulk([]string{"chicken", "yogurt"}, k)
		for i, d := range []string{"chicken", "yogurt"} {
			assert.Equal(t, e.Recognise(d, k), results[i])
		}
	}
	zero := e.ScanBulk([]string{"chicken"}, 0)
	require.Len(t, zero, 1)
	assert.Empty(t, zero[0])
}

func TestItemRepresentation(t *testing.T) {
	e := newTestEngine(t)
	for _, item := range e.KnownItems() {
		rep := ItemRepresentation(item)
		assert.Contains(t, rep, strings.ToLower(item.Name))
		assert.Contains(t, rep, strings.ToLower(item.ServingSize))
		for _, alias := range item.Aliases {
			assert.Contains(t, rep, strings.ToLower(alias))
		}
		assert.Equal(t, strings.ToLower(rep), rep)
	}
	assert.Equal(t, "grilled chicken breast 100g grilled chicken chicken breast",
		ItemRepresentation(e.KnownItems()[0]))
}

type countingEncoder struct {
	calls int
}

func (c *countingEncoder) Encode(texts []string) []models.SparseVector {
	c.calls++
	out := make([]models.SparseVector, len(texts))
	for i := range texts {
		out[i] = models.SparseVector{"all": 1}
	}
	return out
}

func TestWithEncoder(t *testing.T) {
	enc := &countingEncoder{}
	e := NewEngineFromItems([]models.FoodItem{{Name: "A"}, {Name: "B"}}, WithEncoder(enc))
	assert.Equal(t, 1, enc.calls, "catalog should be embedded in one batch")

	e.AddCustomItem(models.FoodItem{Name: "C"})
	assert.Equal(t, 2, enc.calls, "added item should be embedded once")

	results := e.Recognise("anything", 3)
	require.Len(t, results, 3)
	assert.Equal(t, 1.0, results[0].Confidence)
	assert.Equal(t, 3, enc.calls, "query embeds only itself")
}
