package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"heartprep/pkg/pipeline"
)

type prepareFlags struct {
	outDir       string
	features     []string
	target       string
	testFraction float64
	seed         int64
	lo, hi       float64
	clip         bool
}

func newPrepareCmd(a *app) *cobra.Command {
	f := &prepareFlags{}
	cmd := &cobra.Command{
		Use:   "prepare [input]",
		Short: "Run the full pipeline and write scaled train/test partitions",
		Long: `Prepare encodes and normalizes the input, keeps the features and target,
shuffles with a fixed seed, splits off the test rows and scales the features
with statistics fitted on the training rows only.

The partitions are written to --out-dir as x_train.csv, x_test.csv,
y_train.csv and y_test.csv.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.baseConfig()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Input = args[0]
			}
			if cfg.Input == "" {
				return errors.New("no input given")
			}

			fl := cmd.Flags()
			if fl.Changed("out-dir") {
				cfg.OutputDir = f.outDir
			}
			if fl.Changed("features") {
				cfg.Features = f.features
			}
			if fl.Changed("target") {
				cfg.Target = f.target
			}
			if fl.Changed("test-fraction") {
				cfg.TestFraction = f.testFraction
			}
			if fl.Changed("seed") {
				cfg.Seed = f.seed
			}
			if fl.Changed("lo") {
				cfg.Scale.Lo = f.lo
			}
			if fl.Changed("hi") {
				cfg.Scale.Hi = f.hi
			}
			if fl.Changed("clip") {
				cfg.Clip = f.clip
			}

			d, err := pipeline.PrepareFile(cfg, pipeline.WithLogger(a.logger))
			if err != nil {
				return err
			}
			if len(d.NormalizeFailed) > 0 {
				fmt.Fprintf(a.out, "unnormalized columns: %s\n", strings.Join(d.NormalizeFailed, ", "))
			}
			fmt.Fprintf(a.out, "train=%d test=%d features=%s target=%s\n",
				len(d.XTrain), len(d.XTest), strings.Join(d.Features, ","), d.Target)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.outDir, "out-dir", "", "Directory for the partition files")
	fl.StringSliceVar(&f.features, "features", nil, "Feature columns, in order")
	fl.StringVar(&f.target, "target", "", "Target column")
	fl.Float64Var(&f.testFraction, "test-fraction", 0, "Fraction of rows held out for testing, in (0, 1)")
	fl.Int64Var(&f.seed, "seed", 0, "Shuffle seed")
	fl.Float64Var(&f.lo, "lo", 0, "Lower bound of the scale interval")
	fl.Float64Var(&f.hi, "hi", 0, "Upper bound of the scale interval")
	fl.BoolVar(&f.clip, "clip", true, "Clip scaled test values to the interval; --clip=false keeps them unbounded")
	return cmd
}
