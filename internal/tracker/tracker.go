// ABOUTME: Food tracker that logs consumption using the recognition engine and an entry store.
// ABOUTME: Provides scanning, logging, custom foods, per-day logs, and nutrition totals.
package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/2389-research/munch/internal/models"
	"github.com/2389-research/munch/internal/storage"
)

// DefaultQuantity is the number of servings assumed when none is given.
const DefaultQuantity = 1.0

// ErrNoMatch is returned when a description matches nothing in the catalog.
var ErrNoMatch = errors.New("no matching food found")

// Recogniser is the subset of the recognition engine the tracker depends on.
type Recogniser interface {
	KnownItems() []models.FoodItem
	AddCustomItem(item models.FoodItem)
	Recognise(description string, topK int) []models.RecognisedFood
	ScanBulk(descriptions []string, topK int) [][]models.RecognisedFood
}

// Tracker records eaten food and summarizes it. Methods are safe for concurrent use.
type Tracker struct {
	mu         sync.Mutex
	recogniser Recogniser
	store      storage.EntryStore
	entries    []*models.FoodEntry
}

// New creates a tracker, registering persisted custom foods with the
// recogniser and loading existing entries from the store.
func New(recogniser Recogniser, store storage.EntryStore) (*Tracker, error) {
	if recogniser == nil {
		return nil, fmt.Errorf("recogniser is required")
	}
	if store == nil {
		return nil, fmt.Errorf("entry store is required")
	}

	custom, err := store.ListCustomFoods()
	if err != nil {
		return nil, fmt.Errorf("failed to load custom foods: %w", err)
	}
	for _, item := range custom {
		recogniser.AddCustomItem(item)
	}

	entries, err := store.ListEntries()
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	slog.Debug("tracker loaded", "entries", len(entries), "custom_foods", len(custom))
	return &Tracker{
		recogniser: recogniser,
		store:      store,
		entries:    entries,
	}, nil
}

// KnownItems returns the recogniser's catalog.
func (t *Tracker) KnownItems() []models.FoodItem {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recogniser.KnownItems()
}

// ScanDescription returns the best catalog matches for a free-text description.
func (t *Tracker) ScanDescription(description string, topK int) []models.RecognisedFood {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recogniser.Recognise(description, topK)
}

// ScanDescriptions recognises several descriptions at once, in input order.
func (t *Tracker) ScanDescriptions(descriptions []string, topK int) [][]models.RecognisedFood {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recogniser.ScanBulk(descriptions, topK)
}

// RegisterCustomFood validates and stores a user-defined food, making it
// recognisable immediately and on later runs.
func (t *Tracker) RegisterCustomFood(name, servingSize string, calories float64, macros map[string]float64, aliases []string) (models.FoodItem, error) {
	item, err := models.NewFoodItem(name, servingSize, calories, macros, aliases)
	if err != nil {
		return models.FoodItem{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.SaveCustomFood(item); err != nil {
		return models.FoodItem{}, fmt.Errorf("failed to save custom food: %w", err)
	}
	t.recogniser.AddCustomItem(item)

	slog.Info("custom food registered", "name", item.Name, "calories", item.Calories)
	return item, nil
}

// LogFood records quantity servings of item. A zero timestamp means now.
func (t *Tracker) LogFood(item models.FoodItem, quantity float64, at time.Time) (*models.FoodEntry, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := models.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	entry := models.NewFoodEntry(item, quantity, at)

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.AppendEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}
	// Keep entries ordered by timestamp; back-dated entries land before later ones.
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Timestamp.After(entry.Timestamp)
	})
	t.entries = slices.Insert(t.entries, i, entry)

	slog.Info("food logged", "name", item.Name, "quantity", quantity, "calories", entry.Calories())
	return entry, nil
}

// LogDescription recognises description and logs its best match.
func (t *Tracker) LogDescription(description string, quantity float64, at time.Time) (*models.FoodEntry, models.RecognisedFood, error) {
	matches := t.ScanDescription(description, 1)
	if len(matches) == 0 || matches[0].Confidence <= 0 {
		return nil, models.RecognisedFood{}, fmt.Errorf("%w for %q", ErrNoMatch, description)
	}
	entry, err := t.LogFood(matches[0].Item, quantity, at)
	if err != nil {
		return nil, models.RecognisedFood{}, err
	}
	return entry, matches[0], nil
}

// ManualFoodEntry logs an ad-hoc food that is not added to the catalog.
// A non-positive quantity means DefaultQuantity.
func (t *Tracker) ManualFoodEntry(name, servingSize string, calories, quantity float64, macros map[string]float64) (*models.FoodEntry, error) {
	item, err := models.NewFoodItem(name, servingSize, calories, macros, nil)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		quantity = DefaultQuantity
	}
	return t.LogFood(item, quantity, time.Time{})
}

// Entries returns a copy of all logged entries, oldest first.
func (t *Tracker) Entries() []*models.FoodEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

// EntriesForDay returns the log for the calendar date of day.
func (t *Tracker) EntriesForDay(day time.Time) models.DailyLog {
	t.mu.Lock()
	defer t.mu.Unlock()

	log := models.DailyLog{Day: models.StartOfDay(day)}
	for _, e := range t.entries {
		if models.SameDay(e.Timestamp, day) {
			log.Entries = append(log.Entries, e)
		}
	}
	return log
}

// DailySummary groups all entries by day, earliest day first.
func (t *Tracker) DailySummary() []models.DailyLog {
	t.mu.Lock()
	defer t.mu.Unlock()

	byDay := make(map[string]*models.DailyLog)
	for _, e := range t.entries {
		key := e.Timestamp.Format(models.DayFormat)
		log, ok := byDay[key]
		if !ok {
			log = &models.DailyLog{Day: e.Day()}
			byDay[key] = log
		}
		log.Entries = append(log.Entries, e)
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	summary := make([]models.DailyLog, 0, len(keys))
	for _, k := range keys {
		summary = append(summary, *byDay[k])
	}
	return summary
}

// TotalCalories sums calories over every logged entry.
func (t *Tracker) TotalCalories() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return models.TotalCalories(t.entries)
}

// TotalMacros sums macronutrients over every logged entry.
func (t *Tracker) TotalMacros() map[string]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return models.TotalMacros(t.entries)
}

func (t *Tracker) snapshot() []*models.FoodEntry {
	out := make([]*models.FoodEntry, len(t.entries))
	copy(out, t.entries)
	return out
}
