// ABOUTME: Loading of the reference food catalog from JSON or YAML files.
// ABOUTME: Ships a built-in catalog embedded in the binary for the default engine.
package recognition

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/2389-research/munch/internal/models"
)

//go:embed data/foods.json
var defaultCatalog []byte

// DefaultCatalogName identifies the built-in catalog in logs and errors.
const DefaultCatalogName = "builtin:foods.json"

var (
	// ErrCatalogNotFound is matched by errors.Is when the catalog file does not exist.
	ErrCatalogNotFound = fs.ErrNotExist

	// ErrInvalidItem is returned when a catalog record fails validation.
	ErrInvalidItem = errors.New("invalid food item")
)

// catalogRecord mirrors one record of the catalog file.
type catalogRecord struct {
	Name           string             `json:"name" yaml:"name"`
	ServingSize    string             `json:"serving_size" yaml:"serving_size"`
	Calories       float64            `json:"calories" yaml:"calories"`
	Macronutrients map[string]float64 `json:"macronutrients" yaml:"macronutrients"`
	Aliases        []string           `json:"aliases" yaml:"aliases"`
}

// LoadCatalog reads the catalog at path. YAML is used for .yaml/.yml files,
// JSON otherwise.
func LoadCatalog(path string) ([]models.FoodItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("catalog %s not found: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}

	items, err := decodeCatalog(data, format)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return items, nil
}

// DefaultItems returns the built-in reference catalog.
func DefaultItems() ([]models.FoodItem, error) {
	return decodeCatalog(defaultCatalog, "json")
}

func decodeCatalog(data []byte, format string) ([]models.FoodItem, error) {
	var records []catalogRecord
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
	}

	items := make([]models.FoodItem, 0, len(records))
	for i, r := range records {
		item, err := models.NewFoodItem(r.Name, r.ServingSize, r.Calories, r.Macronutrients, r.Aliases)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w: %v", i, ErrInvalidItem, err)
		}
		items = append(items, item)
	}
	return items, nil
}
