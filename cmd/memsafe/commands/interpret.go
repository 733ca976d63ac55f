package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/irahardianto/memsafe/internal/engine/analyzer"
	"github.com/irahardianto/memsafe/internal/engine/config"
	"github.com/irahardianto/memsafe/internal/engine/formatter"
	"github.com/irahardianto/memsafe/internal/platform/logger"
)

var flagSource string

var interpretCmd = &cobra.Command{
	Use:   "interpret <response-file|->",
	Short: "Interpret a saved model response without calling a provider",
	Long: `Recover the analysis document from a saved model answer, locate each
finding in the C source given by --source and print the report.

Useful for replaying answers, debugging recovery and testing prompts
offline. Without --source, findings are reported but no snippets can be
located.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := resolveConfig(ctx, defaultConfigLoader, currentFlags())
		if err != nil {
			return err
		}
		fmtr, err := newFormatter(cfg)
		if err != nil {
			return fmt.Errorf("creating formatter: %w", err)
		}
		in := interpretInput{
			ResponsePath: args[0],
			SourcePath:   flagSource,
			FS:           &config.RealFileSystem{},
			Stdin:        os.Stdin,
		}
		return runInterpret(ctx, in, fmtr, cfg.FailUnder, cmd.OutOrStdout())
	},
}

func init() {
	interpretCmd.Flags().StringVar(&flagSource, "source", "", "C source the response refers to")
	rootCmd.AddCommand(interpretCmd)
}

// interpretInput names the files an interpret run reads.
type interpretInput struct {
	ResponsePath string
	SourcePath   string
	FS           config.FileSystem
	Stdin        io.Reader
}

// ErrStdinTwice is returned when both the response and the source are read from stdin.
var ErrStdinTwice = errors.New("response and --source cannot both be read from stdin")

// runInterpret builds a single-file report from a saved response.
func runInterpret(ctx context.Context, in interpretInput, fmtr formatter.Formatter, failUnder int, out io.Writer) error {
	log := logger.FromContext(ctx)
	start := time.Now()

	if in.ResponsePath == config.StdinPath && in.SourcePath == config.StdinPath {
		return ErrStdinTwice
	}

	raw, err := readInput(in.FS, in.Stdin, in.ResponsePath)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	src := analyzer.Source{Path: in.ResponsePath}
	if in.SourcePath != "" {
		code, err := readInput(in.FS, in.Stdin, in.SourcePath)
		if err != nil {
			return fmt.Errorf("reading source: %w", err)
		}
		src = analyzer.Source{Path: in.SourcePath, Content: code}
	}

	fr := analyzer.BuildReport(src, raw)
	fr.DurationMs = time.Since(start).Milliseconds()
	log.Info("response interpreted", "file", src.Path, "strategy", fr.Strategy, "error", fr.Error)

	report := formatter.RunReport{
		ID:         uuid.New().String(),
		DurationMs: fr.DurationMs,
		Files:      []formatter.FileReport{fr},
	}
	report.Evaluate(failUnder)

	fmt.Fprint(out, fmtr.Format(report))

	if !report.Passed {
		return ErrScoreBelowThreshold
	}
	return nil
}

func readInput(fsys config.FileSystem, stdin io.Reader, path string) (string, error) {
	if path == config.StdinPath {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := fsys.ReadFile(path)
	return string(data), err
}
