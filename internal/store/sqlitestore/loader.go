package sqlitestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"vecindario/internal/model"
)

// LoadNeighborhoodsFromFile reads a neighborhood list from JSON or YAML.
func LoadNeighborhoodsFromFile(path string) ([]model.Neighborhood, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read neighborhoods file: %w", err)
	}
	var items []model.Neighborhood
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &items)
	default:
		err = json.Unmarshal(b, &items)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal neighborhoods: %w", err)
	}
	return items, nil
}
