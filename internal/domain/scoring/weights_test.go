package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWeights(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    Weights
		wantErr bool
	}{
		{
			name:    "yaml",
			file:    "weights.yml",
			content: "weights:\n  structure: 0.5\n  semantic: 0.3\n  retrieval: 0.2\n",
			want:    Weights{"structure": 0.5, "semantic": 0.3, "retrieval": 0.2},
		},
		{
			name:    "toml",
			file:    "weights.toml",
			content: "[weights]\nstructure = 0.6\nsemantic = 0.4\n",
			want:    Weights{"structure": 0.6, "semantic": 0.4},
		},
		{name: "malformed yaml", file: "w.yaml", content: "weights: [oops", wantErr: true},
		{name: "no table", file: "w.yml", content: "other: 1\n", wantErr: true},
		{name: "negative", file: "w.yml", content: "weights:\n  structure: -0.1\n", wantErr: true},
		{name: "unsupported", file: "w.ini", content: "structure=1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadWeights(writeFile(t, tt.file, tt.content))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadWeightsMissingFile(t *testing.T) {
	_, err := LoadWeights(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestCachedWeights(t *testing.T) {
	ResetWeights()
	t.Cleanup(ResetWeights)

	custom := writeFile(t, "weights.yml", "weights:\n  structure: 1\n")
	assert.Equal(t, Weights{"structure": 1}, CachedWeights(custom))

	// Cached for the process: a different path is ignored until reset.
	assert.Equal(t, Weights{"structure": 1}, CachedWeights("/does/not/exist.yml"))

	ResetWeights()
	assert.Equal(t, DefaultWeights(), CachedWeights("/does/not/exist.yml"))

	got := CachedWeights("")
	got["structure"] = 99
	assert.Equal(t, 0.4, CachedWeights("")["structure"])
}

func TestCachedWeightsFallsBackOnBadFile(t *testing.T) {
	ResetWeights()
	t.Cleanup(ResetWeights)

	bad := writeFile(t, "weights.yml", "weights:\n  structure: nope\n")
	assert.Equal(t, DefaultWeights(), CachedWeights(bad))
}

func TestRank(t *testing.T) {
	metrics := map[string]float64{"structure": 0.5, "semantic": 0.25, "retrieval": 0.1}

	assert.Equal(t, 32.0, Rank(metrics, DefaultWeights()))
	assert.Equal(t, 0.0, Rank(map[string]float64{}, DefaultWeights()))

	custom := Weights{"structure": 1, "semantic": 1}
	assert.Equal(t, 75.0, Rank(metrics, custom), "no renormalization")

	withExtra := map[string]float64{"structure": 0.5, "semantic": 0.25, "retrieval": 0.1, "unused": 0.9}
	assert.Equal(t, Rank(metrics, DefaultWeights()), Rank(withExtra, DefaultWeights()))

	missing := map[string]float64{"structure": 1}
	assert.Equal(t, 40.0, Rank(missing, DefaultWeights()))
}
