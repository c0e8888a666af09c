package pipeline

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dgallion1/omextract/internal/extract"
	"github.com/dgallion1/omextract/internal/output"
	"github.com/dgallion1/omextract/internal/parser"
)

// Runner converts one document at a time: load, extract, write.
type Runner struct {
	parser    parser.Parser
	extractor *extract.Extractor
	writer    *output.Writer
	stats     *extract.Stats
	log       *slog.Logger
}

// NewRunner wires the pipeline stages. stats may be nil.
func NewRunner(p parser.Parser, e *extract.Extractor, w *output.Writer, stats *extract.Stats, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		parser:    p,
		extractor: e,
		writer:    w,
		stats:     stats,
		log:       log,
	}
}

// Extract parses src and returns its records. It records the run in the
// runner's stats.
func (r *Runner) Extract(ctx context.Context, src io.Reader, name string) ([]extract.Record, extract.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, extract.Summary{}, err
	}
	start := time.Now()
	doc, err := r.parser.Parse(src, name)
	if err != nil {
		return nil, extract.Summary{}, err
	}
	records, summary := r.extractor.ExtractWithSummary(doc)
	if r.stats != nil {
		r.stats.Observe(time.Since(start), len(records))
	}
	return records, summary, nil
}

// Process runs the full conversion for job. On failure no output file is
// created and Result.Err carries a *parser.ParseError or *output.WriteError.
func (r *Runner) Process(ctx context.Context, job *Job) Result {
	log := r.log.With("job_id", job.ID, "input", job.Input)
	start := time.Now()

	finish := func(res Result, err error) Result {
		if err != nil {
			job.Fail(err)
		} else {
			job.SetStatus(StatusCompleted)
		}
		res.Job = job.Snapshot()
		res.Duration = time.Since(start)
		res.Err = err
		return res
	}

	if err := ctx.Err(); err != nil {
		return finish(Result{}, err)
	}

	// Phase 1: Load
	job.SetStatus(StatusParsing)
	data, err := os.ReadFile(job.Input)
	if err != nil {
		log.Error("read input failed", "error", err)
		return finish(Result{}, &parser.ParseError{Source: job.Input, Err: err})
	}
	res := Result{InputHash: ContentHashHex(data)}

	// Phase 2: Extract
	job.SetStatus(StatusExtracting)
	records, summary, err := r.Extract(ctx, bytes.NewReader(data), job.Input)
	if err != nil {
		return finish(res, err)
	}
	res.Records = records
	res.Summary = summary
	log.Info("extraction complete", "records", summary.Records, "tables", summary.Tables)

	// Phase 3: Write
	job.SetStatus(StatusWriting)
	if err := r.writer.WriteFile(ctx, job.Output, job.Format, records); err != nil {
		return finish(res, err)
	}
	return finish(res, nil)
}
