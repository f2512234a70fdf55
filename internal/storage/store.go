// ABOUTME: Interface definition for logged food entry storage.
// ABOUTME: Defines the repository contract and picks a backend by name.
package storage

import (
	"fmt"

	"github.com/2389-research/munch/internal/models"
)

// Backend names accepted by Open.
const (
	BackendMarkdown = "markdown"
	BackendSQLite   = "sqlite"
)

// EntryStore defines operations for persisting logged entries and custom foods.
type EntryStore interface {
	// AppendEntry persists a logged food entry.
	AppendEntry(entry *models.FoodEntry) error

	// ListEntries returns every stored entry, oldest first.
	ListEntries() ([]*models.FoodEntry, error)

	// SaveCustomFood persists a user-defined food item.
	SaveCustomFood(item models.FoodItem) error

	// ListCustomFoods returns user-defined food items in the order saved.
	ListCustomFoods() ([]models.FoodItem, error)

	// Close releases any resources held by the store.
	Close() error
}

// Open creates the store for backend rooted at dataDir. An empty backend means markdown.
func Open(backend, dataDir string) (EntryStore, error) {
	switch backend {
	case "", BackendMarkdown:
		return NewEntryMDStore(dataDir)
	case BackendSQLite:
		return NewEntrySQLiteStore(dataDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %s or %s)", backend, BackendMarkdown, BackendSQLite)
	}
}
