package dataprep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heartprep/pkg/data"
)

func column(header string, values ...any) *data.Table {
	t := data.NewTable([]string{header})
	for _, v := range values {
		t.Rows = append(t.Rows, []any{v})
	}
	return t
}

func TestEncodeOrdinalSex(t *testing.T) {
	tbl := column("Sex", "M", "F", "M", "M", "F", "F", "M", "F", "M", "F")

	out, err := EncodeOrdinal(tbl, "Sex", SexCodes)
	require.NoError(t, err)

	got, err := out.Floats("Sex")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0, 0, 1, 1, 0, 1, 0, 1}, got)

	// input untouched
	assert.Equal(t, "M", tbl.Rows[0][0])
}

func TestEncodeOrdinalCodomain(t *testing.T) {
	samples := map[string][]any{
		"Sex":            {"M", "F"},
		"ChestPainType":  {"TA", "ATA", "NAP", "ASY"},
		"RestingECG":     {"Normal", "ST", "LVH"},
		"ExerciseAngina": {"Y", "N"},
		"ST_Slope":       {"Up", "Flat", "Down"},
	}
	for name, codes := range HeartCodebook() {
		t.Run(name, func(t *testing.T) {
			out, err := EncodeOrdinal(column(name, samples[name]...), name, codes)
			require.NoError(t, err)
			got, err := out.Floats(name)
			require.NoError(t, err)
			for _, v := range got {
				assert.Contains(t, codes.Codomain(), v)
			}
			assert.ElementsMatch(t, codes.Codomain(), got)
		})
	}
}

func TestEncodeOrdinalCodes(t *testing.T) {
	out, err := EncodeOrdinal(column("ChestPainType", "TA", "ATA", "NAP", "ASY"), "ChestPainType", ChestPainTypeCodes)
	require.NoError(t, err)
	got, _ := out.Floats("ChestPainType")
	assert.Equal(t, []float64{0, 1, 2, 3}, got)

	out, err = EncodeOrdinal(column("ExerciseAngina", "Y", "N"), "ExerciseAngina", ExerciseAnginaCodes)
	require.NoError(t, err)
	got, _ = out.Floats("ExerciseAngina")
	assert.Equal(t, []float64{1, 0}, got)
}

func TestEncodeOrdinalUnknown(t *testing.T) {
	_, err := EncodeOrdinal(column("Sex", "M", "X"), "Sex", SexCodes)
	require.ErrorIs(t, err, data.ErrUnknownCategory)
	assert.Contains(t, err.Error(), `"X"`)
	assert.Contains(t, err.Error(), "row 1")

	_, err = EncodeOrdinal(column("Sex", "M", ""), "Sex", SexCodes)
	assert.ErrorIs(t, err, data.ErrUnknownCategory)

	_, err = EncodeOrdinal(column("Sex", "M"), "Gender", SexCodes)
	assert.ErrorIs(t, err, data.ErrMissingColumn)
}

func TestEncodeOneHot(t *testing.T) {
	tbl := data.NewTable([]string{"Age", "ST_Slope", "HeartDisease"})
	tbl.Rows = [][]any{
		{"40", "Up", "0"},
		{"49", "Flat", "1"},
		{"37", "Up", "0"},
		{"54", "Down", "1"},
	}

	out, names, err := EncodeOneHot(tbl, "ST_Slope", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Down", "Flat", "Up"}, names)
	assert.Equal(t, []string{"Age", "Down", "Flat", "Up", "HeartDisease"}, out.Header)
	assert.False(t, out.Has("ST_Slope"))

	// exactly one indicator set per row
	for i, row := range out.Rows {
		sum := 0.0
		for k := range names {
			v := row[1+k].(float64)
			assert.True(t, v == 0 || v == 1)
			sum += v
		}
		assert.Equal(t, 1.0, sum, "row %d", i)
	}
	up, _ := out.Floats("Up")
	assert.Equal(t, []float64{1, 0, 1, 0}, up)
	assert.Equal(t, "49", out.Rows[1][0])
	assert.Equal(t, "1", out.Rows[1][4])
}

func TestEncodeOneHotCardinality(t *testing.T) {
	values := []any{"NAP", "ASY", "ATA", "ASY", "TA", "NAP"}
	out, names, err := EncodeOneHot(column("ChestPainType", values...), "ChestPainType", nil)
	require.NoError(t, err)

	distinct := map[string]struct{}{}
	for _, v := range values {
		distinct[v.(string)] = struct{}{}
	}
	assert.Len(t, names, len(distinct))
	for _, n := range names {
		assert.Contains(t, distinct, n)
	}
	assert.Len(t, out.Header, len(distinct))
}

func TestEncodeOneHotDeterministic(t *testing.T) {
	a, namesA, err := EncodeOneHot(column("C", "b", "a", "c"), "C", nil)
	require.NoError(t, err)
	b, namesB, err := EncodeOneHot(column("C", "c", "b", "a"), "C", nil)
	require.NoError(t, err)
	assert.Equal(t, namesA, namesB)
	assert.Equal(t, a.Header, b.Header)
}

func TestEncodeOneHotDeclared(t *testing.T) {
	out, names, err := EncodeOneHot(column("ST_Slope", "Up", "Up"), "ST_Slope", []string{"Up", "Flat", "Down"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Down", "Flat", "Up"}, names)
	flat, _ := out.Floats("Flat")
	assert.Equal(t, []float64{0, 0}, flat)

	_, _, err = EncodeOneHot(column("ST_Slope", "Up", "Sideways"), "ST_Slope", []string{"Up", "Flat", "Down"})
	require.ErrorIs(t, err, data.ErrUnknownCategory)
	assert.Contains(t, err.Error(), "Sideways")
}

func TestEncodeOneHotErrors(t *testing.T) {
	_, _, err := EncodeOneHot(column("C", "a", ""), "C", nil)
	assert.ErrorIs(t, err, data.ErrUnknownCategory)

	tbl := data.NewTable([]string{"Up", "ST_Slope"})
	tbl.Rows = [][]any{{"1", "Up"}}
	_, _, err = EncodeOneHot(tbl, "ST_Slope", nil)
	assert.ErrorIs(t, err, data.ErrDuplicateColumn)

	_, _, err = EncodeOneHot(tbl, "Nope", nil)
	assert.ErrorIs(t, err, data.ErrMissingColumn)
}
