// Package analyzer runs the per-source pipeline: build the prompt, ask the
// provider, interpret the answer, locate each snippet and assemble the report.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/irahardianto/memsafe/internal/engine/formatter"
	"github.com/irahardianto/memsafe/internal/engine/llm"
	"github.com/irahardianto/memsafe/internal/platform/logger"
)

var (
	// ErrEmptySource is returned when there is no code to analyze.
	ErrEmptySource = errors.New("source is empty, paste some C code first")
	// ErrSourceTooLarge is returned when a source exceeds the configured size limit.
	ErrSourceTooLarge = errors.New("source exceeds max_source_size")
)

// Source is a C translation unit to analyze.
type Source struct {
	// Path is shown in reports; it does not need to exist on disk.
	Path    string
	Content string
}

// Options configures an Analyzer.
type Options struct {
	Provider string
	Model    string
	// MaxSourceBytes rejects larger sources; 0 means no limit.
	MaxSourceBytes int64
}

// Analyzer analyzes sources with a single provider client. It is safe for
// concurrent use if the client is.
type Analyzer struct {
	client llm.Client
	opts   Options
}

// New creates a new Analyzer.
func New(client llm.Client, opts Options) *Analyzer {
	return &Analyzer{client: client, opts: opts}
}

// Check validates a source before it is sent anywhere.
func (a *Analyzer) Check(src Source) error {
	return Validate(src, a.opts.MaxSourceBytes)
}

// Validate rejects blank sources and sources larger than limit bytes.
// A limit of 0 disables the size check.
func Validate(src Source, limit int64) error {
	if strings.TrimSpace(src.Content) == "" {
		return ErrEmptySource
	}
	if limit > 0 && int64(len(src.Content)) > limit {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrSourceTooLarge, len(src.Content), limit)
	}
	return nil
}

// Analyze sends src to the provider and builds its report.
// Invalid input is returned as an error; provider and recovery failures are
// recorded in the report so that one bad file does not stop a run.
func (a *Analyzer) Analyze(ctx context.Context, src Source) (*formatter.FileReport, error) {
	log := logger.FromContext(ctx)
	if err := a.Check(src); err != nil {
		return nil, err
	}

	log.Info("analysis started", "file", src.Path, "provider", a.opts.Provider, "model", a.opts.Model)
	start := time.Now()

	prompt := llm.BuildPrompt(src.Path, src.Content)
	raw, err := a.client.Complete(ctx, prompt)

	var report formatter.FileReport
	if err != nil {
		report = formatter.FileReport{
			File:            src.Path,
			Error:           fmt.Sprintf("provider request failed: %v", err),
			Vulnerabilities: []formatter.VulnerabilityReport{},
			SuggestedFixes:  []formatter.FixReport{},
		}
	} else {
		report = BuildReport(src, raw)
	}

	report.Provider = a.opts.Provider
	report.Model = a.opts.Model
	report.DurationMs = time.Since(start).Milliseconds()

	if report.Failed() {
		log.Warn("analysis failed", "file", src.Path, "error", report.Error, "duration_ms", report.DurationMs)
	} else {
		log.Info("analysis completed",
			"file", src.Path,
			"score", report.SafetyScore,
			"vulnerabilities", len(report.Vulnerabilities),
			"strategy", report.Strategy,
			"duration_ms", report.DurationMs,
		)
	}
	return &report, nil
}
