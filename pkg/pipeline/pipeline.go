package pipeline

import (
	"io"
	"log/slog"

	"heartprep/pkg/data"
)

// Stage turns one table into a new one. Stages never modify their input.
type Stage interface {
	Name() string
	Apply(t *data.Table) (*data.Table, error)
}

// StageFunc adapts a function to Stage.
type StageFunc struct {
	Label string
	Fn    func(t *data.Table) (*data.Table, error)
}

func (s StageFunc) Name() string                             { return s.Label }
func (s StageFunc) Apply(t *data.Table) (*data.Table, error) { return s.Fn(t) }

// Pipeline chains stages, feeding each the previous output.
type Pipeline struct {
	steps  []Stage
	logger *slog.Logger
}

func NewPipeline(logger *slog.Logger, steps ...Stage) *Pipeline {
	if logger == nil {
		logger = discardLogger()
	}
	return &Pipeline{steps: steps, logger: logger}
}

// Run applies every stage in order and stops at the first error.
func (p *Pipeline) Run(t *data.Table) (*data.Table, error) {
	var err error
	for _, step := range p.steps {
		t, err = step.Apply(t)
		if err != nil {
			return nil, err
		}
		p.logger.Debug("stage done", "stage", step.Name(), "rows", t.Len(), "columns", len(t.Header))
	}
	return t, nil
}

// options holds the optional settings of a run.
type options struct {
	logger *slog.Logger
}

// Option configures Clean and Prepare.
type Option func(*options)

// WithLogger sets the logger for the run.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = discardLogger()
	}
	return o
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
