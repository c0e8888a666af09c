package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dgallion1/omextract/internal/config"
	"github.com/dgallion1/omextract/internal/output"
	"github.com/dgallion1/omextract/internal/parser"
	"github.com/dgallion1/omextract/internal/pipeline"
	"github.com/spf13/cobra"
)

func runConvert(cmd *cobra.Command, opts *rootOptions, args []string, stdout, stderr io.Writer) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	log := newLogger(stderr, cfg.LogLevel, cfg.LogFormat)

	format, err := output.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	jobs, err := planJobs(cfg, format, args, cmd.Flags().Changed("output"))
	if err != nil {
		return err
	}

	runner := newRunner(cfg, log, nil)
	results := pipeline.NewOrchestrator(runner, cfg.BatchWorkers, log).Run(cmd.Context(), jobs)

	label := strings.ToUpper(string(format))
	for _, res := range results {
		if res.Err == nil {
			fmt.Fprintf(stdout, "%s file '%s' generated successfully.\n", label, res.Job.Output)
		}
	}

	failed := pipeline.Failed(results)
	if failed == 0 {
		return nil
	}
	first := pipeline.FirstError(results)
	if len(results) == 1 {
		return first
	}
	return fmt.Errorf("%d of %d conversions failed: %w", failed, len(results), first)
}

// planJobs builds one job per input. Without positional inputs the configured
// input/output pair is used. Positional inputs write next to themselves, or
// into --output when it names an existing directory.
func planJobs(cfg config.Config, format output.Format, args []string, outputSet bool) ([]*pipeline.Job, error) {
	if len(args) == 0 {
		return []*pipeline.Job{pipeline.NewJob(cfg.Input, cfg.Output, format)}, nil
	}

	inputs, err := discoverInputs(args)
	if err != nil {
		return nil, err
	}

	outDir := ""
	if outputSet {
		info, err := os.Stat(cfg.Output)
		switch {
		case err == nil && info.IsDir():
			outDir = cfg.Output
		case len(inputs) == 1:
			return []*pipeline.Job{pipeline.NewJob(inputs[0], cfg.Output, format)}, nil
		default:
			return nil, fmt.Errorf("%w: --output must be an existing directory for %d inputs", ErrUsage, len(inputs))
		}
	}

	jobs := make([]*pipeline.Job, 0, len(inputs))
	for _, in := range inputs {
		jobs = append(jobs, pipeline.NewJob(in, derivedOutput(in, outDir, format), format))
	}
	return jobs, nil
}

// discoverInputs expands directories into the XML files below them. Explicit
// file arguments are kept whatever their extension.
func discoverInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, &parser.ParseError{Source: arg, Err: err}
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}

		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if !d.IsDir() && parser.IsSupportedExtension(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, &parser.ParseError{Source: arg, Err: err}
		}
		slices.Sort(found)
		inputs = append(inputs, found...)
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInput, strings.Join(args, ", "))
	}
	return inputs, nil
}

func derivedOutput(input, outDir string, format output.Format) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + format.Extension()
	if outDir == "" {
		outDir = filepath.Dir(input)
	}
	return filepath.Join(outDir, name)
}
