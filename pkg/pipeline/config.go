package pipeline

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"gopkg.in/yaml.v3"

	"heartprep/pkg/data"
	"heartprep/pkg/dataprep"
)

// ErrInvalidConfig is returned for a configuration that cannot run.
var ErrInvalidConfig = errors.New("invalid config")

// Interval is a closed target range [Lo, Hi].
type Interval struct {
	Lo float64 `yaml:"lo"`
	Hi float64 `yaml:"hi"`
}

// BlochInterval is [-2π, 2π].
var BlochInterval = Interval{Lo: -2 * math.Pi, Hi: 2 * math.Pi}

// Config holds every parameter of a run.
type Config struct {
	Input     string `yaml:"input"`
	Output    string `yaml:"output"`
	OutputDir string `yaml:"output_dir"`

	// Columns is the exact header expected in the input. Empty accepts any.
	Columns []string `yaml:"columns"`
	Schema  Schema   `yaml:"schema"`

	// Select is the column allow-list of the cleaning output. Empty means
	// Features followed by Target.
	Select   []string `yaml:"select"`
	Features []string `yaml:"features"`
	Target   string   `yaml:"target"`

	TestFraction float64  `yaml:"test_fraction"`
	Seed         int64    `yaml:"seed"`
	Scale        Interval `yaml:"scale"`
	Clip         bool     `yaml:"clip"`
}

// CleanColumns returns the cleaning allow-list.
func (c Config) CleanColumns() []string {
	if len(c.Select) > 0 {
		return c.Select
	}
	return append(append([]string{}, c.Features...), c.Target)
}

// Validate checks the configuration for a full Prepare run.
func (c Config) Validate() error {
	if err := c.validateClean(); err != nil {
		return err
	}
	if len(c.Features) == 0 {
		return fmt.Errorf("%w: no features", ErrInvalidConfig)
	}
	if c.Target == "" {
		return fmt.Errorf("%w: no target", ErrInvalidConfig)
	}
	seen := map[string]struct{}{}
	for _, f := range c.Features {
		if f == c.Target {
			return fmt.Errorf("%w: target %q listed as a feature", ErrInvalidConfig, f)
		}
		if _, ok := seen[f]; ok {
			return fmt.Errorf("%w: feature %q listed twice", ErrInvalidConfig, f)
		}
		seen[f] = struct{}{}
	}
	if !(c.TestFraction > 0 && c.TestFraction < 1) {
		return fmt.Errorf("%w: test fraction %v outside (0, 1)", ErrInvalidConfig, c.TestFraction)
	}
	if !(c.Scale.Lo < c.Scale.Hi) {
		return fmt.Errorf("%w: scale interval [%v, %v] is empty", ErrInvalidConfig, c.Scale.Lo, c.Scale.Hi)
	}
	return nil
}

// validateClean checks only what Clean needs.
func (c Config) validateClean() error {
	if _, err := c.Schema.resolve(); err != nil {
		return err
	}
	if len(c.CleanColumns()) == 0 || (len(c.Select) == 0 && c.Target == "") {
		return fmt.Errorf("%w: nothing selected for output", ErrInvalidConfig)
	}
	return nil
}

// ClassifierConfig reproduces the preprocessing used for the variational
// classifier: ordinal codes everywhere, four features scaled to [-2π, 2π],
// a 70/30 split with seed 42. Test values outside the training range are
// clipped so every scaled value stays inside the interval.
func ClassifierConfig() Config {
	return Config{
		Columns:      append([]string{}, data.HeartColumns...),
		Schema:       HeartSchema(),
		Features:     []string{"ExerciseAngina", "Oldpeak", "MaxHR", "Sex"},
		Target:       "HeartDisease",
		TestFraction: 0.3,
		Seed:         42,
		Scale:        BlochInterval,
		Clip:         true,
	}
}

// CorrelationConfig reproduces the correlation study cleaning: chest pain
// type and ST slope are one-hot expanded and the indicators most related to
// the target are kept.
func CorrelationConfig() Config {
	c := ClassifierConfig()
	c.Schema = Schema{
		{Name: "Sex", Kind: Ordinal, Codes: dataprep.SexCodes},
		{Name: "ChestPainType", Kind: OneHot, Categories: []string{"TA", "ATA", "NAP", "ASY"}},
		{Name: "RestingECG", Kind: Ordinal, Codes: dataprep.RestingECGCodes},
		{Name: "ExerciseAngina", Kind: Ordinal, Codes: dataprep.ExerciseAnginaCodes},
		{Name: "ST_Slope", Kind: OneHot, Categories: []string{"Up", "Flat", "Down"}},
	}
	c.Features = []string{"ExerciseAngina", "ASY", "Flat", "Up"}
	c.Select = []string{"ExerciseAngina", "ASY", "Flat", "Up", "HeartDisease"}
	return c
}

var presets = map[string]func() Config{
	"classifier":  ClassifierConfig,
	"correlation": CorrelationConfig,
}

// Preset returns a built-in configuration by name.
func Preset(name string) (Config, error) {
	f, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidConfig, name)
	}
	return f(), nil
}

// PresetNames lists the built-in configurations.
func PresetNames() []string {
	return []string{"classifier", "correlation"}
}

type decodeFunc func(path string, src []byte, base Config) (Config, error)

// decoders picks the config format by file extension.
var decoders = map[string]decodeFunc{
	".yaml": decodeYAML,
	".yml":  decodeYAML,
	".hcl":  decodeHCL,
}

// LoadConfig reads a YAML or HCL file on top of base. Settings absent from
// the file keep their base value.
func LoadConfig(path string, base Config) (Config, error) {
	dec, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return Config{}, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, filepath.Ext(path))
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return dec(path, src, base)
}

func decodeYAML(path string, src []byte, base Config) (Config, error) {
	cfg := base
	if err := yaml.Unmarshal(src, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

// hclFile mirrors Config for HCL. Pointers, nil slices and blocks tell absent
// settings from zero values.
type hclFile struct {
	Input        *string      `hcl:"input,optional"`
	Output       *string      `hcl:"output,optional"`
	OutputDir    *string      `hcl:"output_dir,optional"`
	Columns      []string     `hcl:"columns,optional"`
	Select       []string     `hcl:"select,optional"`
	Features     []string     `hcl:"features,optional"`
	Target       *string      `hcl:"target,optional"`
	TestFraction *float64     `hcl:"test_fraction,optional"`
	Seed         *int64       `hcl:"seed,optional"`
	Clip         *bool        `hcl:"clip,optional"`
	Scale        *hclInterval `hcl:"scale,block"`
	Schema       []hclColumn  `hcl:"column,block"`
}

type hclInterval struct {
	Lo float64 `hcl:"lo"`
	Hi float64 `hcl:"hi"`
}

type hclColumn struct {
	Name       string             `hcl:"name,label"`
	Kind       string             `hcl:"kind"`
	Codes      map[string]float64 `hcl:"codes,optional"`
	Categories []string           `hcl:"categories,optional"`
}

func decodeHCL(path string, src []byte, base Config) (Config, error) {
	var f hclFile
	if err := hclsimple.Decode(path, src, nil, &f); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg := base
	setString(&cfg.Input, f.Input)
	setString(&cfg.Output, f.Output)
	setString(&cfg.OutputDir, f.OutputDir)
	setString(&cfg.Target, f.Target)
	if f.Columns != nil {
		cfg.Columns = f.Columns
	}
	if f.Select != nil {
		cfg.Select = f.Select
	}
	if f.Features != nil {
		cfg.Features = f.Features
	}
	if f.TestFraction != nil {
		cfg.TestFraction = *f.TestFraction
	}
	if f.Seed != nil {
		cfg.Seed = *f.Seed
	}
	if f.Clip != nil {
		cfg.Clip = *f.Clip
	}
	if f.Scale != nil {
		cfg.Scale = Interval{Lo: f.Scale.Lo, Hi: f.Scale.Hi}
	}
	if len(f.Schema) > 0 {
		cfg.Schema = make(Schema, len(f.Schema))
		for i, c := range f.Schema {
			cfg.Schema[i] = ColumnSpec{
				Name:       c.Name,
				Kind:       Kind(c.Kind),
				Codes:      dataprep.OrdinalMap(c.Codes),
				Categories: c.Categories,
			}
		}
	}
	return cfg, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
