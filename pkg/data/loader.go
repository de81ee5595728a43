package data

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
	"golang.org/x/text/unicode/norm"
)

// HeartColumns is the header of the raw clinical export.
var HeartColumns = []string{
	"Age", "Sex", "ChestPainType", "RestingBP", "Cholesterol", "FastingBS",
	"RestingECG", "MaxHR", "ExerciseAngina", "Oldpeak", "ST_Slope", "HeartDisease",
}

// Load reads a comma separated file into a Table of string cells.
// Files ending in .xz are decompressed on the fly. The header must name
// exactly the given columns (in any order); an empty columns slice accepts
// any header. The file is closed before Load returns.
func Load(path string, columns []string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var r io.Reader = bufio.NewReader(file)
	if strings.HasSuffix(path, ".xz") {
		zr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("open xz stream %s: %w", path, err)
		}
		r = zr
	}

	t, err := Read(r, columns)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

// Read parses CSV from r. See Load.
func Read(r io.Reader, columns []string) (*Table, error) {
	reader := csv.NewReader(r)
	raw, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed csv: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrEmptyTable)
	}

	header := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = cleanCell(h)
	}
	if err := checkHeader(header, columns); err != nil {
		return nil, err
	}
	if len(raw) < 2 {
		return nil, ErrEmptyTable
	}

	t := NewTable(header)
	t.Rows = make([][]any, 0, len(raw)-1)
	for _, rec := range raw[1:] {
		row := make([]any, len(rec))
		for j, s := range rec {
			row[j] = cleanCell(s)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func cleanCell(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func checkHeader(header, columns []string) error {
	seen := make(map[string]struct{}, len(header))
	for _, h := range header {
		if _, ok := seen[h]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, h)
		}
		seen[h] = struct{}{}
	}
	if len(columns) == 0 {
		return nil
	}

	want := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		want[c] = struct{}{}
		if _, ok := seen[c]; !ok {
			return fmt.Errorf("%w: %q", ErrMissingColumn, c)
		}
	}
	for _, h := range header {
		if _, ok := want[h]; !ok {
			return fmt.Errorf("%w: %q", ErrUnexpectedColumn, h)
		}
	}
	return nil
}
