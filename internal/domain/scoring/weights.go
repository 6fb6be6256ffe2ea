package scoring

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Weights maps metric names to non-negative weights. The table is applied
// as is; it is not renormalized.
type Weights map[string]float64

var ErrNoWeights = errors.New("weight table is empty")

// DefaultWeights is the built-in table.
func DefaultWeights() Weights {
	return Weights{"structure": 0.4, "semantic": 0.4, "retrieval": 0.2}
}

type weightsFile struct {
	Weights map[string]float64 `yaml:"weights" toml:"weights"`
}

// LoadWeights reads a table from a YAML (.yml, .yaml) or TOML (.toml) file
// holding a top-level "weights" mapping.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}

	var parsed weightsFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &parsed)
	case ".toml":
		err = toml.Unmarshal(data, &parsed)
	default:
		return nil, fmt.Errorf("unsupported weights format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse weights %s: %w", path, err)
	}

	w := Weights(parsed.Weights)
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Validate rejects empty tables and negative or non-finite weights.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return ErrNoWeights
	}
	for name, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("weight %q: invalid value %v", name, v)
		}
	}
	return nil
}

// Rank is round(100 * Σ w[m]*metrics[m], 2) over the weighted names.
// Metrics without a weight are ignored and weighted metrics that are
// missing count as 0.
func Rank(metrics map[string]float64, w Weights) float64 {
	var sum float64
	for _, name := range slices.Sorted(maps.Keys(w)) {
		sum += w[name] * metrics[name]
	}
	return Round(100*sum, 2)
}

var (
	weightsMu     sync.Mutex
	cachedWeights Weights
)

// CachedWeights loads the table at path on first use and keeps it for the
// life of the process. Any load error falls back to DefaultWeights. The
// returned map is a copy.
func CachedWeights(path string) Weights {
	weightsMu.Lock()
	defer weightsMu.Unlock()

	if cachedWeights == nil {
		w, err := LoadWeights(path)
		if err != nil {
			w = DefaultWeights()
		}
		cachedWeights = w
	}
	return maps.Clone(cachedWeights)
}

// ResetWeights drops the cached table so the next CachedWeights call reloads.
func ResetWeights() {
	weightsMu.Lock()
	cachedWeights = nil
	weightsMu.Unlock()
}
