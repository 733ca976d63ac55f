package commands

import (
	"context"

	"github.com/irahardianto/memsafe/internal/engine/analyzer"
	"github.com/irahardianto/memsafe/internal/engine/formatter"
)

// SourceCollector abstracts turning command arguments into sources.
type SourceCollector interface {
	Collect(ctx context.Context, args []string, staged bool) ([]analyzer.Source, error)
}

// SourceRunner abstracts concurrent analysis of sources.
type SourceRunner interface {
	RunAll(ctx context.Context, sources []analyzer.Source, failUnder int) (*formatter.RunReport, error)
}
