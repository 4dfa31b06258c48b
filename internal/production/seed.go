package production

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedSeed is returned for seed files that are neither YAML nor JSON.
var ErrUnsupportedSeed = errors.New("unsupported seed format")

// LoadSeed reads initial slice values from a .yaml, .yml or .json file whose
// top level maps slice names to values.
func LoadSeed(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("seed %q: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	seed := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &seed); err != nil {
			return nil, fmt.Errorf("yaml unmarshal: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &seed); err != nil {
			return nil, fmt.Errorf("json unmarshal: %w", err)
		}
	default:
		return nil, fmt.Errorf("seed %q: %w", path, ErrUnsupportedSeed)
	}
	return seed, nil
}
