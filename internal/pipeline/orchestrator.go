package pipeline

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Orchestrator runs a batch of jobs with bounded concurrency. A failing job
// does not stop the others.
type Orchestrator struct {
	runner  *Runner
	workers int
	log     *slog.Logger
}

func NewOrchestrator(runner *Runner, workers int, log *slog.Logger) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Orchestrator{runner: runner, workers: workers, log: log}
}

// Run processes jobs and returns one Result per job, in job order. Jobs not
// yet started when ctx is cancelled fail with the context error.
func (o *Orchestrator) Run(ctx context.Context, jobs []*Job) []Result {
	results := make([]Result, len(jobs))

	var g errgroup.Group
	g.SetLimit(o.workers)
	for i, job := range jobs {
		g.Go(func() error {
			results[i] = o.runner.Process(ctx, job)
			return nil
		})
	}
	_ = g.Wait()

	failed := Failed(results)
	o.log.Info("batch complete", "jobs", len(jobs), "failed", failed)
	return results
}

// Failed counts results carrying an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// FirstError returns the error of the first failed result, in job order.
func FirstError(results []Result) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
