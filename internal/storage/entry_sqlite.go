// ABOUTME: SQLite-backed entry storage using the pure-Go modernc driver.
// ABOUTME: Keeps entries and custom foods in two tables, with maps and lists as JSON text.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/2389-research/munch/internal/models"
)

// SQLiteFileName is the database file created inside the data directory.
const SQLiteFileName = "munch.db"

// EntrySQLiteStore stores entries and custom foods in a SQLite database.
type EntrySQLiteStore struct {
	db *sql.DB
}

// NewEntrySQLiteStore opens (or creates) munch.db inside dataDir.
func NewEntrySQLiteStore(dataDir string) (*EntrySQLiteStore, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, SQLiteFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &EntrySQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *EntrySQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS entries (
        id TEXT PRIMARY KEY,
        timestamp TEXT NOT NULL,
        ts_unix INTEGER NOT NULL,
        quantity REAL NOT NULL,
        food_name TEXT NOT NULL,
        serving_size TEXT NOT NULL,
        calories REAL NOT NULL,
        macronutrients TEXT NOT NULL,
        aliases TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS custom_foods (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        serving_size TEXT NOT NULL,
        calories REAL NOT NULL,
        macronutrients TEXT NOT NULL,
        aliases TEXT NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_entries_ts ON entries(ts_unix);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// AppendEntry inserts a logged entry.
func (s *EntrySQLiteStore) AppendEntry(entry *models.FoodEntry) error {
	macros, aliases, err := encodeFoodLists(entry.Food)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO entries (id, timestamp, ts_unix, quantity, food_name, serving_size, calories, macronutrients, aliases)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err = s.db.Exec(query,
		entry.ID.String(), formatTime(entry.Timestamp), entry.Timestamp.UnixNano(), entry.Quantity,
		entry.Food.Name, entry.Food.ServingSize, entry.Food.Calories, macros, aliases)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

// ListEntries returns every entry, oldest first.
func (s *EntrySQLiteStore) ListEntries() ([]*models.FoodEntry, error) {
	query := `
        SELECT id, timestamp, quantity, food_name, serving_size, calories, macronutrients, aliases
        FROM entries
        ORDER BY ts_unix, rowid
    `
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*models.FoodEntry
	for rows.Next() {
		var idStr, tsStr, macros, aliases string
		entry := &models.FoodEntry{}

		err := rows.Scan(&idStr, &tsStr, &entry.Quantity,
			&entry.Food.Name, &entry.Food.ServingSize, &entry.Food.Calories, &macros, &aliases)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}

		if entry.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("invalid entry id %q: %w", idStr, err)
		}
		if entry.Timestamp, err = parseTime(tsStr); err != nil {
			return nil, fmt.Errorf("failed to parse timestamp: %w", err)
		}
		if err := decodeFoodLists(&entry.Food, macros, aliases); err != nil {
			return nil, fmt.Errorf("entry %s: %w", idStr, err)
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// SaveCustomFood inserts a custom food.
func (s *EntrySQLiteStore) SaveCustomFood(item models.FoodItem) error {
	macros, aliases, err := encodeFoodLists(item)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO custom_foods (name, serving_size, calories, macronutrients, aliases)
        VALUES (?, ?, ?, ?, ?)
    `
	if _, err := s.db.Exec(query, item.Name, item.ServingSize, item.Calories, macros, aliases); err != nil {
		return fmt.Errorf("failed to insert custom food: %w", err)
	}
	return nil
}

// ListCustomFoods returns custom foods in insertion order.
func (s *EntrySQLiteStore) ListCustomFoods() ([]models.FoodItem, error) {
	rows, err := s.db.Query(`
        SELECT name, serving_size, calories, macronutrients, aliases
        FROM custom_foods
        ORDER BY id
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query custom foods: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []models.FoodItem
	for rows.Next() {
		var item models.FoodItem
		var macros, aliases string
		if err := rows.Scan(&item.Name, &item.ServingSize, &item.Calories, &macros, &aliases); err != nil {
			return nil, fmt.Errorf("failed to scan custom food: %w", err)
		}
		if err := decodeFoodLists(&item, macros, aliases); err != nil {
			return nil, fmt.Errorf("custom food %q: %w", item.Name, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Close closes the database.
func (s *EntrySQLiteStore) Close() error {
	return s.db.Close()
}

func encodeFoodLists(item models.FoodItem) (macros, aliases string, err error) {
	m := item.Macronutrients
	if m == nil {
		m = map[string]float64{}
	}
	mb, err := json.Marshal(m)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode macronutrients: %w", err)
	}
	a := item.Aliases
	if a == nil {
		a = []string{}
	}
	ab, err := json.Marshal(a)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode aliases: %w", err)
	}
	return string(mb), string(ab), nil
}

func decodeFoodLists(item *models.FoodItem, macros, aliases string) error {
	if err := json.Unmarshal([]byte(macros), &item.Macronutrients); err != nil {
		return fmt.Errorf("failed to decode macronutrients: %w", err)
	}
	if err := json.Unmarshal([]byte(aliases), &item.Aliases); err != nil {
		return fmt.Errorf("failed to decode aliases: %w", err)
	}
	if len(item.Aliases) == 0 {
		item.Aliases = nil
	}
	return nil
}
