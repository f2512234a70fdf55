// ABOUTME: Markdown-based entry storage with date-based directories.
// ABOUTME: Stores each logged entry as a markdown file with YAML frontmatter and custom foods in YAML.
package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/2389-research/munch/internal/models"
)

const customFoodsFile = "_custom_foods.yaml"

// EntryMDStore stores food entries as markdown files under a data directory.
type EntryMDStore struct {
	dataDir string
}

// entryFrontmatter is the YAML frontmatter for entry files.
type entryFrontmatter struct {
	ID        string          `yaml:"id"`
	Timestamp string          `yaml:"timestamp"`
	Quantity  float64         `yaml:"quantity"`
	Food      models.FoodItem `yaml:"food"`
}

// customFoodsDoc is the YAML structure for _custom_foods.yaml.
type customFoodsDoc struct {
	Foods []models.FoodItem `yaml:"foods"`
}

// NewEntryMDStore creates a markdown store rooted at dataDir.
func NewEntryMDStore(dataDir string) (*EntryMDStore, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	return &EntryMDStore{dataDir: dataDir}, nil
}

func (s *EntryMDStore) entriesDir() string {
	return filepath.Join(s.dataDir, "entries")
}

// AppendEntry writes the entry to entries/<date>/<time>-<id>.md.
func (s *EntryMDStore) AppendEntry(entry *models.FoodEntry) error {
	dateDir := entry.Timestamp.Format(models.DayFormat)
	timeStr := entry.Timestamp.Format("15-04-05.000000")
	shortID := entry.ID.String()[:8]
	path := filepath.Join(s.entriesDir(), dateDir, timeStr+"-"+shortID+".md")

	fm := entryFrontmatter{
		ID:        entry.ID.String(),
		Timestamp: formatTime(entry.Timestamp),
		Quantity:  entry.Quantity,
		Food:      entry.Food,
	}

	content, err := renderFrontmatter(fm, renderEntryBody(entry))
	if err != nil {
		return fmt.Errorf("failed to render frontmatter: %w", err)
	}

	if err := atomicWrite(path, []byte(content)); err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	return nil
}

// ListEntries reads every entry file, oldest first. Unparseable files are skipped.
func (s *EntryMDStore) ListEntries() ([]*models.FoodEntry, error) {
	root := s.entriesDir()
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	dateDirs, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var entries []*models.FoodEntry
	for _, dateDir := range dateDirs {
		if !dateDir.IsDir() {
			continue
		}

		dirPath := filepath.Join(root, dateDir.Name())
		files, err := os.ReadDir(dirPath)
		if err != nil {
			continue
		}

		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".md") {
				continue
			}

			filePath := filepath.Join(dirPath, file.Name())
			data, err := os.ReadFile(filePath)
			if err != nil {
				slog.Warn("skipping unreadable entry", "path", filePath, "error", err)
				continue
			}

			entry, err := parseEntry(filePath, string(data))
			if err != nil {
				slog.Warn("skipping malformed entry", "path", filePath, "error", err)
				continue
			}
			entries = append(entries, entry)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

// SaveCustomFood appends item to _custom_foods.yaml.
func (s *EntryMDStore) SaveCustomFood(item models.FoodItem) error {
	path := filepath.Join(s.dataDir, customFoodsFile)
	var doc customFoodsDoc
	if err := readYAML(path, &doc); err != nil {
		return fmt.Errorf("failed to read custom foods: %w", err)
	}
	doc.Foods = append(doc.Foods, item)
	if err := writeYAML(path, &doc); err != nil {
		return fmt.Errorf("failed to write custom foods: %w", err)
	}
	return nil
}

// ListCustomFoods returns the saved custom foods in the order they were added.
func (s *EntryMDStore) ListCustomFoods() ([]models.FoodItem, error) {
	var doc customFoodsDoc
	if err := readYAML(filepath.Join(s.dataDir, customFoodsFile), &doc); err != nil {
		return nil, fmt.Errorf("failed to read custom foods: %w", err)
	}
	return doc.Foods, nil
}

// Close releases any resources held by the store.
func (s *EntryMDStore) Close() error {
	return nil
}

// parseEntry parses a markdown file into a FoodEntry.
func parseEntry(path, content string) (*models.FoodEntry, error) {
	yamlStr, _ := parseFrontmatter(content)
	if yamlStr == "" {
		return nil, fmt.Errorf("no frontmatter found in %s", path)
	}

	var fm entryFrontmatter
	if err := yaml.Unmarshal([]byte(yamlStr), &fm); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	id, err := uuid.Parse(fm.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID in frontmatter: %w", err)
	}

	ts, err := parseTime(fm.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp in frontmatter: %w", err)
	}

	if fm.Food.Macronutrients == nil {
		fm.Food.Macronutrients = map[string]float64{}
	}

	return &models.FoodEntry{
		ID:        id,
		Food:      fm.Food,
		Quantity:  fm.Quantity,
		Timestamp: ts,
	}, nil
}

// renderEntryBody is the human-readable summary under the frontmatter.
func renderEntryBody(entry *models.FoodEntry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n## %s\n", entry.Food.Name))
	sb.WriteString(fmt.Sprintf("%g × %s, %.1f kcal\n", entry.Quantity, entry.Food.ServingSize, entry.Calories()))
	macros := entry.Macros()
	for _, name := range sortedKeys(macros) {
		sb.WriteString(fmt.Sprintf("- %s: %.1f\n", name, macros[name]))
	}
	return sb.String()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
