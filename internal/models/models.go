// ABOUTME: Core data models for food items, recognition results, and logged entries.
// ABOUTME: Provides constructor functions and value types shared by the engine and tracker.
package models

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DayFormat is the layout used for day keys and date directories.
const DayFormat = "2006-01-02"

// FoodItem is a known food with its nutrition per serving.
// Values are treated as immutable once created; use Clone before handing
// a stored item to code that may mutate it.
type FoodItem struct {
	Name           string             `json:"name" yaml:"name"`
	ServingSize    string             `json:"serving_size" yaml:"serving_size"`
	Calories       float64            `json:"calories" yaml:"calories"`
	Macronutrients map[string]float64 `json:"macronutrients" yaml:"macronutrients"`
	Aliases        []string           `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// NewFoodItem creates a validated food item. Nil macronutrients become an empty map.
func NewFoodItem(name, servingSize string, calories float64, macros map[string]float64, aliases []string) (FoodItem, error) {
	item := FoodItem{
		Name:           name,
		ServingSize:    servingSize,
		Calories:       calories,
		Macronutrients: maps.Clone(macros),
		Aliases:        slices.Clone(aliases),
	}
	if item.Macronutrients == nil {
		item.Macronutrients = map[string]float64{}
	}
	if err := item.Validate(); err != nil {
		return FoodItem{}, err
	}
	return item, nil
}

// Validate checks that the item has a name and that every nutrition value
// is a finite, non-negative number.
func (f FoodItem) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("food item name is required")
	}
	if !nonNegative(f.Calories) {
		return fmt.Errorf("food item %q: calories must be a non-negative number, got %v", f.Name, f.Calories)
	}
	for k, v := range f.Macronutrients {
		if !nonNegative(v) {
			return fmt.Errorf("food item %q: macronutrient %q must be a non-negative number, got %v", f.Name, k, v)
		}
	}
	return nil
}

// ValidateQuantity checks that a serving count is a finite positive number.
func ValidateQuantity(quantity float64) error {
	if !finite(quantity) || quantity <= 0 {
		return fmt.Errorf("quantity must be a positive number, got %v", quantity)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func nonNegative(v float64) bool {
	return finite(v) && v >= 0
}

// Clone returns a deep copy of the item.
func (f FoodItem) Clone() FoodItem {
	c := f
	c.Macronutrients = maps.Clone(f.Macronutrients)
	c.Aliases = slices.Clone(f.Aliases)
	return c
}

// Equal reports structural equality. A nil and an empty macro map or alias list compare equal.
func (f FoodItem) Equal(o FoodItem) bool {
	if f.Name != o.Name || f.ServingSize != o.ServingSize || f.Calories != o.Calories {
		return false
	}
	if len(f.Macronutrients) != len(o.Macronutrients) || len(f.Aliases) != len(o.Aliases) {
		return false
	}
	return maps.Equal(f.Macronutrients, o.Macronutrients) && slices.Equal(f.Aliases, o.Aliases)
}

// ContainsItem reports whether items holds a structurally equal item.
func ContainsItem(items []FoodItem, item FoodItem) bool {
	return slices.ContainsFunc(items, item.Equal)
}

// SparseVector maps a token to its weight. Vectors produced by the embedding
// model are L2-normalized; a degenerate text yields an empty mapping.
type SparseVector map[string]float64

// RecognisedFood pairs a catalog item with how confidently it matched a query.
type RecognisedFood struct {
	Item       FoodItem `json:"item"`
	Confidence float64  `json:"confidence"` // 0.0 to 1.0
}

// FoodEntry is one logged consumption of a food.
type FoodEntry struct {
	ID        uuid.UUID
	Food      FoodItem
	Quantity  float64 // servings
	Timestamp time.Time
}

// NewFoodEntry creates an entry with a generated UUID. A zero timestamp means now.
func NewFoodEntry(food FoodItem, quantity float64, at time.Time) *FoodEntry {
	if at.IsZero() {
		at = time.Now()
	}
	return &FoodEntry{
		ID:        uuid.New(),
		Food:      food.Clone(),
		Quantity:  quantity,
		Timestamp: at,
	}
}

// Calories returns the calories consumed in this entry.
func (e *FoodEntry) Calories() float64 {
	return e.Food.Calories * e.Quantity
}

// Macros returns the macronutrients consumed in this entry.
func (e *FoodEntry) Macros() map[string]float64 {
	out := make(map[string]float64, len(e.Food.Macronutrients))
	for k, v := range e.Food.Macronutrients {
		out[k] = v * e.Quantity
	}
	return out
}

// Day returns the calendar day of the entry in its own location.
func (e *FoodEntry) Day() time.Time {
	return StartOfDay(e.Timestamp)
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DailyLog groups the entries logged on one day.
type DailyLog struct {
	Day     time.Time
	Entries []*FoodEntry
}

// TotalCalories sums calories across the day's entries.
func (d DailyLog) TotalCalories() float64 {
	return TotalCalories(d.Entries)
}

// TotalMacros sums macronutrients across the day's entries.
func (d DailyLog) TotalMacros() map[string]float64 {
	return TotalMacros(d.Entries)
}

// TotalCalories sums calories across entries.
func TotalCalories(entries []*FoodEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Calories()
	}
	return total
}

// TotalMacros sums macronutrients across entries. Returns an empty map for no entries.
func TotalMacros(entries []*FoodEntry) map[string]float64 {
	totals := make(map[string]float64)
	for _, e := range entries {
		for k, v := range e.Macros() {
			totals[k] += v
		}
	}
	return totals
}

// FormatMacros renders macronutrients as "carbs 6.0g, protein 17.0g" in key order.
func FormatMacros(macros map[string]float64) string {
	if len(macros) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(macros))
	for k := range macros {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s %.1fg", k, macros[k])
	}
	return strings.Join(parts, ", ")
}
