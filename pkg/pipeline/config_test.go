package pipeline

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heartprep/pkg/data"
	"heartprep/pkg/dataprep"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPresets(t *testing.T) {
	for _, name := range PresetNames() {
		cfg, err := Preset(name)
		require.NoError(t, err, name)
		assert.NoError(t, cfg.Validate(), name)
		assert.Equal(t, int64(42), cfg.Seed)
		assert.Equal(t, 0.3, cfg.TestFraction)
		assert.Equal(t, -2*math.Pi, cfg.Scale.Lo)
		assert.Equal(t, 2*math.Pi, cfg.Scale.Hi)
		assert.True(t, cfg.Clip)
	}

	_, err := Preset("nope")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfig(t, "run.yaml", `
input: heart.csv
features: [Oldpeak, MaxHR]
seed: 7
scale:
  lo: -1
  hi: 1
schema:
  - name: Sex
    kind: ordinal
    codes: {M: 1, F: 0}
  - name: ST_Slope
    kind: onehot
`)
	cfg, err := LoadConfig(path, ClassifierConfig())
	require.NoError(t, err)

	assert.Equal(t, "heart.csv", cfg.Input)
	assert.Equal(t, []string{"Oldpeak", "MaxHR"}, cfg.Features)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, Interval{Lo: -1, Hi: 1}, cfg.Scale)
	// untouched settings come from the base
	assert.Equal(t, "HeartDisease", cfg.Target)
	assert.Equal(t, 0.3, cfg.TestFraction)
	assert.Equal(t, data.HeartColumns, cfg.Columns)

	require.Len(t, cfg.Schema, 2)
	assert.Equal(t, dataprep.OrdinalMap{"M": 1, "F": 0}, cfg.Schema[0].Codes)
	assert.Equal(t, OneHot, cfg.Schema[1].Kind)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigHCL(t *testing.T) {
	path := writeConfig(t, "run.hcl", `
output_dir    = "out"
select        = ["ExerciseAngina", "ASY", "HeartDisease"]
test_fraction = 0.25
clip          = false

scale {
  lo = 0
  hi = 1
}

column "ChestPainType" {
  kind       = "onehot"
  categories = ["TA", "ATA", "NAP", "ASY"]
}

column "ExerciseAngina" {
  kind  = "ordinal"
  codes = { Y = 1, N = 0 }
}
`)
	cfg, err := LoadConfig(path, ClassifierConfig())
	require.NoError(t, err)

	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, []string{"ExerciseAngina", "ASY", "HeartDisease"}, cfg.Select)
	assert.Equal(t, 0.25, cfg.TestFraction)
	assert.False(t, cfg.Clip)
	assert.Equal(t, Interval{Lo: 0, Hi: 1}, cfg.Scale)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "HeartDisease", cfg.Target)

	require.Len(t, cfg.Schema, 2)
	assert.Equal(t, "ChestPainType", cfg.Schema[0].Name)
	assert.Equal(t, OneHot, cfg.Schema[0].Kind)
	assert.Equal(t, []string{"TA", "ATA", "NAP", "ASY"}, cfg.Schema[0].Categories)
	assert.Equal(t, dataprep.OrdinalMap{"Y": 1, "N": 0}, cfg.Schema[1].Codes)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "run.toml", "seed = 1"), Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), Config{})
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = LoadConfig(writeConfig(t, "bad.yaml", "seed: [1"), Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadConfig(writeConfig(t, "bad.hcl", "seed = "), Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"fraction zero":    func(c *Config) { c.TestFraction = 0 },
		"fraction one":     func(c *Config) { c.TestFraction = 1 },
		"empty interval":   func(c *Config) { c.Scale = Interval{Lo: 1, Hi: 1} },
		"no features":      func(c *Config) { c.Features = nil },
		"no target":        func(c *Config) { c.Target = "" },
		"target a feature": func(c *Config) { c.Features = append(c.Features, c.Target) },
		"feature twice":    func(c *Config) { c.Features = []string{"Sex", "Sex"} },
		"unknown kind":     func(c *Config) { c.Schema = Schema{{Name: "Sex", Kind: "hash"}} },
		"ordinal no codes": func(c *Config) { c.Schema = Schema{{Name: "Age", Kind: Ordinal}} },
		"onehot codes":     func(c *Config) { c.Schema = Schema{{Name: "Sex", Kind: OneHot, Codes: dataprep.SexCodes}} },
		"declared twice":   func(c *Config) { c.Schema = Schema{{Name: "Sex", Kind: Ordinal}, {Name: "Sex", Kind: Ordinal}} },
		"unnamed column":   func(c *Config) { c.Schema = Schema{{Kind: Numeric}} },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := ClassifierConfig()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestCleanColumns(t *testing.T) {
	cfg := ClassifierConfig()
	assert.Equal(t, []string{"ExerciseAngina", "Oldpeak", "MaxHR", "Sex", "HeartDisease"}, cfg.CleanColumns())
	assert.Equal(t, []string{"ExerciseAngina", "ASY", "Flat", "Up", "HeartDisease"}, CorrelationConfig().CleanColumns())
	// does not alias Features
	cols := cfg.CleanColumns()
	cols[0] = "X"
	assert.Equal(t, "ExerciseAngina", cfg.Features[0])
}
