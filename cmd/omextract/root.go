package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dgallion1/omextract/internal/config"
	"github.com/dgallion1/omextract/internal/extract"
	"github.com/dgallion1/omextract/internal/output"
	"github.com/dgallion1/omextract/internal/parser"
	"github.com/dgallion1/omextract/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type rootOptions struct {
	configPath string
	verbose    bool

	input   string
	output  string
	format  string
	workers int
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "omextract [flags] [input.xml|dir ...]",
		Short: "Extract section records from omsection/block XML documents",
		Long: "omextract flattens every omsection of an XML document into records of\n" +
			"(section, subsection, content) and writes them as CSV, JSON, XLSX, HTML or SQLite.\n" +
			"Without positional inputs it converts --input into --output.",
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, opts, args, stdout, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")
	addConvertFlags(root.Flags(), opts)

	convert := &cobra.Command{
		Use:   "convert [flags] [input.xml|dir ...]",
		Short: "Convert XML documents into record files (default command)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, opts, args, stdout, stderr)
		},
	}
	addConvertFlags(convert.Flags(), opts)

	root.AddCommand(convert, newServeCmd(opts, stdout), newMCPCmd(opts, stderr))
	return root
}

func addConvertFlags(fs *pflag.FlagSet, opts *rootOptions) {
	d := config.Defaults()
	fs.StringVarP(&opts.input, "input", "i", d.Input, "input XML document")
	fs.StringVarP(&opts.output, "output", "o", d.Output, "output file, or directory for several inputs")
	fs.StringVarP(&opts.format, "format", "f", d.Format, "output format: "+strings.Join(formatNames(), ", "))
	fs.IntVarP(&opts.workers, "workers", "w", d.Workers, "sections extracted concurrently")
}

func formatNames() []string {
	names := make([]string, len(output.Formats))
	for i, f := range output.Formats {
		names[i] = string(f)
	}
	return names
}

// resolveConfig layers defaults, the config file, the environment and the
// flags set on cmd, in that order.
func resolveConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = opts.input
	}
	if flags.Changed("output") {
		cfg.Output = opts.output
	}
	switch {
	case flags.Changed("format"):
		cfg.Format = strings.ToLower(strings.TrimSpace(opts.format))
	case flags.Changed("output"):
		cfg.Format = string(output.FormatForPath(cfg.Output))
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

func newRunner(cfg config.Config, log *slog.Logger, stats *extract.Stats) *pipeline.Runner {
	ex := extract.New(extract.Options{
		Vocabulary: cfg.Vocabulary,
		Workers:    cfg.Workers,
		Log:        log,
	})
	return pipeline.NewRunner(parser.NewXMLParser(log), ex, output.NewWriter(log), stats, log)
}
