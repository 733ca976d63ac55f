package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/irahardianto/memsafe/internal/engine/analyzer"
	"github.com/irahardianto/memsafe/internal/engine/config"
	"github.com/irahardianto/memsafe/internal/engine/git"
	"github.com/irahardianto/memsafe/internal/engine/llm"
	"github.com/irahardianto/memsafe/internal/engine/runner"
	"github.com/irahardianto/memsafe/internal/platform/logger"
)

var flagStaged bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|dir|-]...",
	Short: "Analyze C sources for memory safety issues",
	Long: `Send each C source to the configured model and report vulnerabilities,
the source lines they refer to, a safety score and suggested Rust rewrites.

With no arguments, or "-", the code is read from stdin. Directories are
searched recursively for .c and .h files. --staged analyzes the staged C
sources from the git index instead of any arguments.

Exit 0 if every file was analyzed and scored at least --fail-under,
exit 1 otherwise.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd.Context(), args, flagStaged)
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&flagStaged, "staged", false, "Analyze staged C sources from the git index")
	rootCmd.AddCommand(analyzeCmd)
}

// runAnalyze wires real infrastructure and delegates to Pipeline.Execute.
// This is a composition root; it instantiates production dependencies.
func runAnalyze(ctx context.Context, args []string, staged bool) error {
	log := logger.FromContext(ctx)

	cfg, err := resolveConfig(ctx, defaultConfigLoader, currentFlags())
	if err != nil {
		return err
	}

	fmtr, err := newFormatter(cfg)
	if err != nil {
		return fmt.Errorf("creating formatter: %w", err)
	}

	projectDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	opts := pipelineOpts(cfg)
	opts.Args = args
	opts.Staged = staged

	pipeline := &Pipeline{
		Sources: &SourceReader{
			FS:    &config.RealFileSystem{},
			Stdin: os.Stdin,
			Git:   git.NewExecService(projectDir),
		},
		NewRunner: func(ctx context.Context, total int) (SourceRunner, error) {
			return newEngine(ctx, cfg, llm.Factories{}, runner.NewProgress(os.Stderr, opts.Quiet, total))
		},
		Formatter: fmtr,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}

	err = pipeline.Execute(ctx, opts)
	if err != nil && !errors.Is(err, ErrScoreBelowThreshold) {
		log.Error("pipeline failed", "error", err)
	}
	return err
}

// newEngine builds the provider client and the concurrent runner around it.
func newEngine(ctx context.Context, cfg *config.Config, f llm.Factories, progress *runner.Progress) (*runner.Engine, error) {
	a, err := newAnalyzer(ctx, cfg, f)
	if err != nil {
		return nil, err
	}
	return runner.NewEngineWithProgress(a, cfg.Concurrency, progress), nil
}

func newAnalyzer(ctx context.Context, cfg *config.Config, f llm.Factories) (*analyzer.Analyzer, error) {
	client, err := llm.NewClient(ctx, cfg, f)
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", cfg.Provider, err)
	}
	return analyzer.New(client, analyzer.Options{
		Provider:       string(cfg.Provider),
		Model:          cfg.ModelName(),
		MaxSourceBytes: cfg.MaxSourceBytes(),
	}), nil
}
