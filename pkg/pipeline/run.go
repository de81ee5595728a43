package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"heartprep/pkg/data"
	"heartprep/pkg/dataprep"
	"heartprep/pkg/loader"
	"heartprep/pkg/stats"
)

// ErrEmptySplit is returned when a partition would have no rows.
var ErrEmptySplit = errors.New("split leaves a partition empty")

func encodeStage(s Schema) Stage {
	return StageFunc{Label: "encode", Fn: func(t *data.Table) (*data.Table, error) {
		return Encode(t, s)
	}}
}

func selectStage(columns []string) Stage {
	return StageFunc{Label: "select", Fn: func(t *data.Table) (*data.Table, error) {
		return dataprep.Select(t, columns)
	}}
}

func shuffleStage(seed int64) Stage {
	return StageFunc{Label: "shuffle", Fn: func(t *data.Table) (*data.Table, error) {
		return loader.Shuffle(t, seed), nil
	}}
}

// normalizeStage remembers the columns Normalize could not convert.
type normalizeStage struct {
	failed []string
}

func (s *normalizeStage) Name() string { return "normalize" }

func (s *normalizeStage) Apply(t *data.Table) (*data.Table, error) {
	out, failed := dataprep.Normalize(t)
	s.failed = failed
	return out, nil
}

// Cleaned is the output of the cleaning stage.
type Cleaned struct {
	Table *data.Table
	// NormalizeFailed lists columns that kept non-numeric cells.
	NormalizeFailed []string
}

// Clean encodes, normalizes and narrows t to cfg.CleanColumns().
func Clean(t *data.Table, cfg Config, opts ...Option) (*Cleaned, error) {
	if err := cfg.validateClean(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	norm := &normalizeStage{}
	p := NewPipeline(o.logger, encodeStage(cfg.Schema), norm, selectStage(cfg.CleanColumns()))
	out, err := p.Run(t)
	if err != nil {
		return nil, err
	}
	if len(norm.failed) > 0 {
		o.logger.Warn("columns left unnormalized", "columns", norm.failed)
	}
	return &Cleaned{Table: out, NormalizeFailed: norm.failed}, nil
}

// CleanFile loads cfg.Input, cleans it and, when cfg.Output is set, writes
// the result there.
func CleanFile(cfg Config, opts ...Option) (*Cleaned, error) {
	o := buildOptions(opts)
	t, err := data.Load(cfg.Input, cfg.Columns)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("loaded", "path", cfg.Input, "rows", t.Len(), "columns", len(t.Header))

	c, err := Clean(t, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("clean %s: %w", cfg.Input, err)
	}
	if cfg.Output != "" {
		if err := data.WriteFile(cfg.Output, c.Table); err != nil {
			return nil, err
		}
		o.logger.Info("cleaned", "input", cfg.Input, "output", cfg.Output, "rows", c.Table.Len())
	}
	return c, nil
}

// Dataset is the scaled, split output handed to a model.
// XTrain[i] pairs with YTrain[i]; XTest[i] pairs with YTest[i].
type Dataset struct {
	Features []string
	Target   string

	XTrain, XTest [][]float64
	YTrain, YTest [][]float64

	// Scaler holds the statistics fitted on the training rows.
	Scaler *stats.MinMaxScaler
	// NormalizeFailed lists columns that kept non-numeric cells.
	NormalizeFailed []string
}

// Prepare runs encode, normalize, select, shuffle, split and scale.
// The scaler is fitted on the training partition only.
func Prepare(t *data.Table, cfg Config, opts ...Option) (*Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	columns := append(append([]string{}, cfg.Features...), cfg.Target)
	norm := &normalizeStage{}
	p := NewPipeline(o.logger,
		encodeStage(cfg.Schema),
		norm,
		selectStage(columns),
		shuffleStage(cfg.Seed),
	)
	shuffled, err := p.Run(t)
	if err != nil {
		return nil, err
	}
	if len(norm.failed) > 0 {
		o.logger.Warn("columns left unnormalized", "columns", norm.failed)
	}

	split, err := loader.TrainTestSplit(shuffled, cfg.Target, cfg.TestFraction)
	if err != nil {
		return nil, err
	}
	if len(split.XTrain) == 0 || len(split.XTest) == 0 {
		return nil, fmt.Errorf("%w: %d train, %d test rows", ErrEmptySplit, len(split.XTrain), len(split.XTest))
	}

	scaler := stats.NewMinMaxScaler(cfg.Scale.Lo, cfg.Scale.Hi)
	scaler.Clip = cfg.Clip
	if err := scaler.Fit(split.XTrain); err != nil {
		return nil, err
	}
	xTrain, err := scaler.Transform(split.XTrain)
	if err != nil {
		return nil, err
	}
	xTest, err := scaler.Transform(split.XTest)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("scaled", "train", len(xTrain), "test", len(xTest), "lo", cfg.Scale.Lo, "hi", cfg.Scale.Hi)

	return &Dataset{
		Features:        split.Features,
		Target:          split.Target,
		XTrain:          xTrain,
		XTest:           xTest,
		YTrain:          split.YTrain,
		YTest:           split.YTest,
		Scaler:          scaler,
		NormalizeFailed: norm.failed,
	}, nil
}

// PrepareFile loads cfg.Input, prepares it and, when cfg.OutputDir is set,
// writes the four partitions there.
func PrepareFile(cfg Config, opts ...Option) (*Dataset, error) {
	o := buildOptions(opts)
	t, err := data.Load(cfg.Input, cfg.Columns)
	if err != nil {
		return nil, err
	}
	d, err := Prepare(t, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("prepare %s: %w", cfg.Input, err)
	}
	if cfg.OutputDir != "" {
		if err := d.WriteDir(cfg.OutputDir); err != nil {
			return nil, err
		}
		o.logger.Info("prepared", "input", cfg.Input, "dir", cfg.OutputDir,
			"train", len(d.XTrain), "test", len(d.XTest))
	}
	return d, nil
}

// Partition file names written by WriteDir.
const (
	XTrainFile = "x_train.csv"
	XTestFile  = "x_test.csv"
	YTrainFile = "y_train.csv"
	YTestFile  = "y_test.csv"
)

// WriteDir writes the partitions as CSV files into dir.
func (d *Dataset) WriteDir(dir string) error {
	target := []string{d.Target}
	for name, part := range map[string]struct {
		header []string
		rows   [][]float64
	}{
		XTrainFile: {d.Features, d.XTrain},
		XTestFile:  {d.Features, d.XTest},
		YTrainFile: {target, d.YTrain},
		YTestFile:  {target, d.YTest},
	} {
		t := data.NewTable(part.header)
		t.Rows = make([][]any, len(part.rows))
		for i, row := range part.rows {
			r := make([]any, len(row))
			for j, v := range row {
				r[j] = v
			}
			t.Rows[i] = r
		}
		if err := data.WriteFile(filepath.Join(dir, name), t); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// Matrices returns the partitions as dense matrices. A partition with no
// rows fails with ErrEmptySplit.
func (d *Dataset) Matrices() (xTrain, xTest, yTrain, yTest *mat.Dense, err error) {
	for name, part := range map[string][][]float64{
		"x train": d.XTrain, "x test": d.XTest, "y train": d.YTrain, "y test": d.YTest,
	} {
		if len(part) == 0 || len(part[0]) == 0 {
			return nil, nil, nil, nil, fmt.Errorf("%w: %s partition is empty", ErrEmptySplit, name)
		}
	}
	return dense(d.XTrain), dense(d.XTest), dense(d.YTrain), dense(d.YTest), nil
}

func dense(rows [][]float64) *mat.Dense {
	m := mat.NewDense(len(rows), len(rows[0]), nil)
	for i, row := range rows {
		m.SetRow(i, row)
	}
	return m
}
