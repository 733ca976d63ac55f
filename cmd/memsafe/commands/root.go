// Package commands implements the CLI commands for memsafe.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/irahardianto/memsafe/internal/engine/config"
	"github.com/irahardianto/memsafe/internal/platform/logger"
)

// dotEnvPath is loaded before any command runs.
const dotEnvPath = ".env"

// Global flag values accessible to all commands.
var (
	flagJSON      bool
	flagFormat    string
	flagVerbose   bool
	flagNoColor   bool
	flagProvider  string
	flagModel     string
	flagConfig    string
	flagFailUnder int
)

// rootCmd is the base command for the memsafe CLI.
var rootCmd = &cobra.Command{
	Use:   "memsafe",
	Short: "LLM-assisted memory safety review for C code",
	Long: `memsafe sends C sources to a language model (OpenAI, Google Gemini or
Hugging Face), recovers the vulnerability report from whatever the model
answers, and points every finding back at the source lines it refers to.

Use it interactively, from CI with --fail-under, as a git pre-commit hook
(memsafe hook install), or as an HTTP service (memsafe serve).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		l := logger.New(os.Stderr, flagVerbose, flagJSON)
		if err := config.LoadDotEnv(dotEnvPath); err != nil {
			l.Warn("ignoring .env file", "error", err)
		}
		ctx := logger.WithContext(cmd.Context(), l)
		cmd.SetContext(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output results as JSON to stdout (same as --format json)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "", "Output format: cli, json, markdown or sarif (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Show recovery strategy, warnings and debug logs")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "LLM provider: openai, gemini or huggingface")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "Model name (default depends on provider)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default ~/.config/memsafe/config.yaml)")
	rootCmd.PersistentFlags().IntVar(&flagFailUnder, "fail-under", -1, "Exit 1 if any file scores below this value (0-100)")
}

// Execute runs the root command. Returns an error if the command fails.
// Errors other than a failed threshold are printed to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, ErrScoreBelowThreshold) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
