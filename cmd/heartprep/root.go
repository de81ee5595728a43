package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"heartprep/pkg/pipeline"
)

// app carries the flags shared by every subcommand.
type app struct {
	verbose    bool
	logFormat  string
	configPath string
	preset     string

	logger *slog.Logger
	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "heartprep",
		Short: "Clean, encode, split and scale the heart failure clinical export",
		Long: `heartprep turns the raw heart failure CSV export into numerically encoded
tables and scaled train/test arrays for a downstream classifier.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(a.verbose, a.logFormat, a.errOut)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	pf.StringVar(&a.logFormat, "log-format", "text", "Log output format: text or json")
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML or HCL config file applied on top of the preset")
	pf.StringVarP(&a.preset, "preset", "p", "classifier",
		"Built-in configuration: "+strings.Join(pipeline.PresetNames(), ", "))

	root.AddCommand(newCleanCmd(a), newPrepareCmd(a), newVersionCmd(a))
	return root
}

// newLogger creates a logger writing to w. It does not touch the default logger.
func newLogger(verbose bool, format string, w io.Writer) (*slog.Logger, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", format)
}

// baseConfig resolves the preset and the optional config file.
func (a *app) baseConfig() (pipeline.Config, error) {
	cfg, err := pipeline.Preset(a.preset)
	if err != nil {
		return pipeline.Config{}, err
	}
	if a.configPath != "" {
		cfg, err = pipeline.LoadConfig(a.configPath, cfg)
		if err != nil {
			return pipeline.Config{}, err
		}
		a.logger.Debug("config loaded", "path", a.configPath)
	}
	return cfg, nil
}
