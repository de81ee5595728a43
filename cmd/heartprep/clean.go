package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"heartprep/pkg/pipeline"
)

type cleanFlags struct {
	output string
	outDir string
	sel    []string
	jobs   int
	watch  bool
}

func newCleanCmd(a *app) *cobra.Command {
	f := &cleanFlags{}
	cmd := &cobra.Command{
		Use:   "clean [input...]",
		Short: "Encode, normalize and narrow inputs to the selected columns",
		Long: `Clean encodes the categorical columns, converts every column to numbers
and keeps only the selected columns, writing one CSV per input.

Inputs may be glob patterns such as 'data/**/*.csv'. With several inputs the
outputs are named cleaned_<name>.csv inside --out-dir.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.baseConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("select") {
				cfg.Select = f.sel
			}
			if f.outDir != "" {
				cfg.OutputDir = f.outDir
			}
			if f.output != "" {
				cfg.Output = f.output
			}

			patterns := args
			if len(patterns) == 0 && cfg.Input != "" {
				patterns = []string{cfg.Input}
			}
			inputs, err := expandInputs(patterns)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				return errors.New("no input given")
			}
			if len(inputs) > 1 && f.output != "" {
				return errors.New("--output needs a single input; use --out-dir")
			}

			jobs := make(map[string]pipeline.Config, len(inputs))
			for _, in := range inputs {
				c := cfg
				c.Input = in
				if len(inputs) > 1 || c.Output == "" {
					c.Output = cleanedPath(cfg.OutputDir, in)
				}
				jobs[in] = c
			}

			if err := a.cleanAll(cmd.Context(), inputs, jobs, f.jobs); err != nil {
				return err
			}
			if !f.watch {
				return nil
			}
			a.logger.Info("watching inputs", "count", len(inputs))
			return watchInputs(cmd.Context(), a.logger, inputs, func(path string) error {
				_, err := pipeline.CleanFile(jobs[path], pipeline.WithLogger(a.logger))
				return err
			})
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "Output path for a single input")
	fl.StringVar(&f.outDir, "out-dir", "", "Directory for cleaned_<name>.csv outputs")
	fl.StringSliceVar(&f.sel, "select", nil, "Columns to keep, in order")
	fl.IntVarP(&f.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "Inputs cleaned in parallel")
	fl.BoolVarP(&f.watch, "watch", "w", false, "Re-clean an input whenever it changes")
	return cmd
}

// cleanAll cleans every input, at most jobs at a time.
func (a *app) cleanAll(ctx context.Context, inputs []string, cfgs map[string]pipeline.Config, jobs int) error {
	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	var mu sync.Mutex
	for _, in := range inputs {
		cfg := cfgs[in]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := pipeline.CleanFile(cfg, pipeline.WithLogger(a.logger))
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(a.out, "%s -> %s (%d rows)\n", cfg.Input, cfg.Output, c.Table.Len())
			return nil
		})
	}
	return g.Wait()
}

// expandInputs resolves glob patterns. A pattern without glob syntax is
// kept as given so a missing file is reported by the loader.
func expandInputs(patterns []string) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	for _, p := range patterns {
		if !strings.ContainsAny(p, "*?[{") {
			add(p)
			continue
		}
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", p)
		}
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

// cleanedPath names the output for input inside dir.
func cleanedPath(dir, input string) string {
	base := strings.TrimSuffix(filepath.Base(input), ".xz")
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, "cleaned_"+base+".csv")
}
