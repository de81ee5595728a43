package pipeline

import (
	"fmt"

	"heartprep/pkg/data"
	"heartprep/pkg/dataprep"
)

// Kind selects how a column is encoded.
type Kind string

const (
	// Numeric columns pass through to normalization untouched.
	Numeric Kind = "numeric"
	// Ordinal columns are replaced by fixed codes.
	Ordinal Kind = "ordinal"
	// OneHot columns are expanded into indicator columns.
	OneHot Kind = "onehot"
)

// ColumnSpec declares the encoding of one column.
type ColumnSpec struct {
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind"`
	// Codes for Ordinal columns. Left empty, the built-in codebook for the
	// column is used.
	Codes dataprep.OrdinalMap `yaml:"codes,omitempty"`
	// Categories optionally fixes the indicator set of a OneHot column.
	Categories []string `yaml:"categories,omitempty"`
}

// Schema describes the structure of a dataset. Columns it does not list
// are treated as Numeric.
type Schema []ColumnSpec

// Lookup returns the spec for name.
func (s Schema) Lookup(name string) (ColumnSpec, bool) {
	for _, c := range s {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

// resolve validates the schema and fills default codebooks.
func (s Schema) resolve() (Schema, error) {
	book := dataprep.HeartCodebook()
	seen := make(map[string]struct{}, len(s))
	out := make(Schema, len(s))
	for i, c := range s {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: schema entry %d has no name", ErrInvalidConfig, i)
		}
		if _, ok := seen[c.Name]; ok {
			return nil, fmt.Errorf("%w: column %q declared twice", ErrInvalidConfig, c.Name)
		}
		seen[c.Name] = struct{}{}

		switch c.Kind {
		case Numeric:
		case Ordinal:
			if len(c.Codes) == 0 {
				codes, ok := book[c.Name]
				if !ok {
					return nil, fmt.Errorf("%w: ordinal column %q has no codes", ErrInvalidConfig, c.Name)
				}
				c.Codes = codes
			}
			if len(c.Categories) > 0 {
				return nil, fmt.Errorf("%w: ordinal column %q cannot declare categories", ErrInvalidConfig, c.Name)
			}
		case OneHot:
			if len(c.Codes) > 0 {
				return nil, fmt.Errorf("%w: one-hot column %q cannot declare codes", ErrInvalidConfig, c.Name)
			}
		default:
			return nil, fmt.Errorf("%w: column %q has unknown kind %q", ErrInvalidConfig, c.Name, c.Kind)
		}
		out[i] = c
	}
	return out, nil
}

// Encode applies every Ordinal and OneHot spec, in schema order.
func Encode(t *data.Table, s Schema) (*data.Table, error) {
	s, err := s.resolve()
	if err != nil {
		return nil, err
	}
	for _, c := range s {
		switch c.Kind {
		case Ordinal:
			t, err = dataprep.EncodeOrdinal(t, c.Name, c.Codes)
		case OneHot:
			t, _, err = dataprep.EncodeOneHot(t, c.Name, c.Categories)
		}
		if err != nil {
			return nil, fmt.Errorf("encode: %w", err)
		}
	}
	return t, nil
}

// HeartSchema declares every categorical column of the heart export as
// Ordinal with its built-in codebook.
func HeartSchema() Schema {
	return Schema{
		{Name: "Sex", Kind: Ordinal},
		{Name: "ChestPainType", Kind: Ordinal},
		{Name: "RestingECG", Kind: Ordinal},
		{Name: "ExerciseAngina", Kind: Ordinal},
		{Name: "ST_Slope", Kind: Ordinal},
	}
}
