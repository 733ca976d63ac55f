// Package runner provides the concurrent execution engine for analyzing sources.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/irahardianto/memsafe/internal/engine/analyzer"
	"github.com/irahardianto/memsafe/internal/engine/formatter"
	"github.com/irahardianto/memsafe/internal/platform/logger"
)

// DefaultConcurrency is used when an Engine is created with a non-positive limit.
const DefaultConcurrency = 4

// SourceAnalyzer analyzes a single source. *analyzer.Analyzer implements it.
type SourceAnalyzer interface {
	Analyze(ctx context.Context, src analyzer.Source) (*formatter.FileReport, error)
}

// Engine orchestrates concurrent source analysis.
type Engine struct {
	analyzer    SourceAnalyzer
	concurrency int

	// Progress is an optional progress tracker. If nil, no progress output is produced.
	Progress *Progress

	// newID generates run identifiers; tests replace it.
	newID func() string
}

// NewEngine creates a new execution engine that runs at most concurrency
// analyses at a time.
func NewEngine(a SourceAnalyzer, concurrency int) *Engine {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Engine{
		analyzer:    a,
		concurrency: concurrency,
		newID:       func() string { return uuid.New().String() },
	}
}

// NewEngineWithProgress creates a new execution engine with progress tracking.
func NewEngineWithProgress(a SourceAnalyzer, concurrency int, p *Progress) *Engine {
	e := NewEngine(a, concurrency)
	e.Progress = p
	return e
}

// RunAll analyzes all sources and collects their reports in input order.
// A file whose safety score is below failUnder fails the run, as does any
// file that could not be analyzed.
func (e *Engine) RunAll(ctx context.Context, sources []analyzer.Source, failUnder int) (*formatter.RunReport, error) {
	log := logger.FromContext(ctx)
	log.Info("Engine.RunAll started", "files", len(sources), "concurrency", e.concurrency)
	start := time.Now()

	report := &formatter.RunReport{ID: e.newID()}
	if len(sources) == 0 {
		report.Evaluate(failUnder)
		return report, nil
	}

	collected := make([]formatter.FileReport, len(sources))
	p := pool.New().WithMaxGoroutines(e.concurrency)

	for i, src := range sources {
		p.Go(func() {
			collected[i] = e.analyzeOne(ctx, src, failUnder)
		})
	}
	p.Wait()

	report.Files = collected
	report.DurationMs = time.Since(start).Milliseconds()
	report.Evaluate(failUnder)

	if e.Progress != nil {
		e.Progress.Finish()
	}

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("analysis interrupted: %w", err)
	}

	log.Info("Engine.RunAll completed", "passed", report.Passed, "duration_ms", report.DurationMs, "files", len(report.Files))
	return report, nil
}

func (e *Engine) analyzeOne(ctx context.Context, src analyzer.Source, failUnder int) formatter.FileReport {
	// Sources still queued when the context ends are not sent.
	if err := ctx.Err(); err != nil {
		return formatter.FileReport{
			File:            src.Path,
			Error:           fmt.Sprintf("analysis cancelled: %v", err),
			Vulnerabilities: []formatter.VulnerabilityReport{},
			SuggestedFixes:  []formatter.FixReport{},
		}
	}

	if e.Progress != nil {
		e.Progress.OnStart(src.Path)
	}

	fileStart := time.Now()
	result, err := e.analyzer.Analyze(ctx, src)
	dur := time.Since(fileStart)

	var fr formatter.FileReport
	if err != nil {
		fr = formatter.FileReport{
			File:            src.Path,
			Error:           err.Error(),
			DurationMs:      dur.Milliseconds(),
			Vulnerabilities: []formatter.VulnerabilityReport{},
			SuggestedFixes:  []formatter.FixReport{},
		}
	} else {
		fr = *result
	}

	if e.Progress != nil {
		e.Progress.OnComplete(fr.File, fr.SafetyScore, fr.SafetyScore >= failUnder, fr.Failed(), fr.Error, dur)
	}
	return fr
}
