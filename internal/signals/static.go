package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"vecindario/internal/model"
)

// StaticProvider serves signals from an in-memory table keyed by neighborhood name.
type StaticProvider struct {
	byName map[string]model.NeighborhoodSignals
}

func NewStaticProvider(byName map[string]model.NeighborhoodSignals) *StaticProvider {
	cp := make(map[string]model.NeighborhoodSignals, len(byName))
	for k, v := range byName {
		cp[k] = v
	}
	return &StaticProvider{byName: cp}
}

// LoadStaticProvider reads a fixture file mapping neighborhood name to signals.
// Files ending in .yaml or .yml are parsed as YAML, anything else as JSON.
func LoadStaticProvider(path string) (*StaticProvider, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signals fixtures: %w", err)
	}
	var byName map[string]model.NeighborhoodSignals
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &byName)
	default:
		err = json.Unmarshal(b, &byName)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal signals fixtures: %w", err)
	}
	return &StaticProvider{byName: byName}, nil
}

func (s *StaticProvider) Fetch(ctx context.Context, n model.Neighborhood) (model.NeighborhoodSignals, error) {
	if err := ctx.Err(); err != nil {
		return model.NeighborhoodSignals{}, err
	}
	sig, ok := s.byName[n.Name]
	if !ok {
		return model.NeighborhoodSignals{}, fmt.Errorf("%w: %s", ErrNotFound, n.Name)
	}
	return sig, nil
}
