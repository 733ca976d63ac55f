package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/irahardianto/memsafe/internal/engine/analyzer"
	"github.com/irahardianto/memsafe/internal/engine/config"
	"github.com/irahardianto/memsafe/internal/engine/git"
)

// stdinName labels code read from standard input in reports.
const stdinName = "<stdin>"

// SourceReader collects sources from files, directories, stdin or the git index.
type SourceReader struct {
	FS    config.FileSystem
	Stdin io.Reader
	Git   git.Service
}

// Collect resolves args into sources. With staged set, the staged C sources
// are read from the index and args are ignored. No args means stdin.
func (r *SourceReader) Collect(ctx context.Context, args []string, staged bool) ([]analyzer.Source, error) {
	if staged {
		files, err := git.CollectStaged(ctx, r.Git, config.IsCSource)
		if err != nil {
			return nil, fmt.Errorf("reading staged sources: %w", err)
		}
		sources := make([]analyzer.Source, 0, len(files))
		for _, f := range files {
			sources = append(sources, analyzer.Source{Path: f.Path, Content: f.Content})
		}
		return sources, nil
	}

	if len(args) == 0 {
		args = []string{config.StdinPath}
	}

	paths, err := config.ExpandSources(r.FS, args)
	if err != nil {
		return nil, err
	}

	sources := make([]analyzer.Source, 0, len(paths))
	for _, p := range paths {
		src, err := r.read(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func (r *SourceReader) read(path string) (analyzer.Source, error) {
	if path == config.StdinPath {
		data, err := io.ReadAll(r.Stdin)
		if err != nil {
			return analyzer.Source{}, fmt.Errorf("reading stdin: %w", err)
		}
		return analyzer.Source{Path: stdinName, Content: string(data)}, nil
	}

	data, err := r.FS.ReadFile(path)
	if err != nil {
		return analyzer.Source{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return analyzer.Source{Path: path, Content: string(data)}, nil
}
