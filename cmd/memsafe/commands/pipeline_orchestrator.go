package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/irahardianto/memsafe/internal/engine/formatter"
	"github.com/irahardianto/memsafe/internal/platform/logger"
)

// ErrScoreBelowThreshold is returned when a file failed or scored below --fail-under.
var ErrScoreBelowThreshold = errors.New("safety score below threshold")

// PipelineOpts holds per-invocation options for the pipeline.
type PipelineOpts struct {
	Args      []string
	Staged    bool
	FailUnder int
	// Quiet suppresses status lines on stderr for machine-readable formats.
	Quiet bool
}

// Pipeline orchestrates an analysis run with injected dependencies.
// This struct enables testing the orchestration logic without real providers.
type Pipeline struct {
	// Sources reads files, stdin or the git index.
	Sources SourceCollector

	// NewRunner builds the runner once the number of sources is known. It is
	// not called when there is nothing to analyze, so a missing API key does
	// not fail an empty pre-commit run.
	NewRunner func(ctx context.Context, total int) (SourceRunner, error)

	// Formatter renders the final report.
	Formatter formatter.Formatter

	// Stdout is the output writer for formatted results.
	Stdout io.Writer

	// Stderr is the output writer for progress/status messages.
	Stderr io.Writer
}

// Execute runs the full pipeline orchestration.
func (p *Pipeline) Execute(ctx context.Context, opts PipelineOpts) error {
	log := logger.FromContext(ctx)
	log.Info("memsafe pipeline started", "args", len(opts.Args), "staged", opts.Staged)

	// 1. Collect sources.
	sources, err := p.Sources.Collect(ctx, opts.Args, opts.Staged)
	if err != nil {
		return err
	}

	if len(sources) == 0 {
		if !opts.Quiet {
			fmt.Fprintln(p.Stderr, "✅ No C sources to analyze")
		}
		return nil
	}

	// 2. Build the provider-backed runner.
	r, err := p.NewRunner(ctx, len(sources))
	if err != nil {
		return err
	}

	// 3. Analyze concurrently.
	report, err := r.RunAll(ctx, sources, opts.FailUnder)
	if err != nil {
		return err
	}

	// 4. Format and print results.
	fmt.Fprint(p.Stdout, p.Formatter.Format(*report))

	// 5. Determine exit code.
	if !report.Passed {
		return ErrScoreBelowThreshold
	}
	return nil
}
