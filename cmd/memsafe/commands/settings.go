package commands

import (
	"context"
	"fmt"

	"github.com/irahardianto/memsafe/internal/engine/config"
	"github.com/irahardianto/memsafe/internal/engine/formatter"
)

// globalFlags is a snapshot of the persistent flags, so that flag handling
// can be tested without touching the package-level variables.
type globalFlags struct {
	JSON      bool
	Format    string
	Verbose   bool
	NoColor   bool
	Provider  string
	Model     string
	Config    string
	FailUnder int // negative means "use the config value"
}

func currentFlags() globalFlags {
	return globalFlags{
		JSON:      flagJSON,
		Format:    flagFormat,
		Verbose:   flagVerbose,
		NoColor:   flagNoColor,
		Provider:  flagProvider,
		Model:     flagModel,
		Config:    flagConfig,
		FailUnder: flagFailUnder,
	}
}

// configLoader loads the user config; a non-empty path overrides the default location.
type configLoader func(ctx context.Context, path string) (*config.Config, error)

func defaultConfigLoader(ctx context.Context, path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(ctx, path)
	}
	return config.Load(ctx)
}

// resolveConfig loads the user config, layers the command-line flags on top
// and validates the result.
func resolveConfig(ctx context.Context, load configLoader, flags globalFlags) (*config.Config, error) {
	cfg, err := load(ctx, flags.Config)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	applyFlags(cfg, flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyFlags overrides config values with explicitly set flags.
func applyFlags(cfg *config.Config, flags globalFlags) {
	if flags.Provider != "" {
		cfg.Provider = config.Provider(flags.Provider)
	}
	if flags.Model != "" {
		cfg.Model = flags.Model
	}
	if flags.Format != "" {
		cfg.Output.Format = flags.Format
	}
	if flags.JSON {
		cfg.Output.Format = config.FormatJSON
	}
	if flags.NoColor {
		cfg.OutputColor = false
	}
	if flags.Verbose {
		cfg.OutputVerbose = true
	}
	if flags.FailUnder >= 0 {
		cfg.FailUnder = flags.FailUnder
	}
}

// newFormatter returns the formatter for the configured output format.
func newFormatter(cfg *config.Config) (formatter.Formatter, error) {
	switch cfg.Output.Format {
	case config.FormatJSON:
		return formatter.NewJSONFormatter(), nil
	case config.FormatSARIF:
		return formatter.NewSARIFFormatter(), nil
	case config.FormatMarkdown:
		if !cfg.OutputColor {
			return formatter.NewMarkdownFormatter(), nil
		}
		return formatter.NewRenderedMarkdownFormatter(markdownWidth)
	default:
		return formatter.NewCLIFormatter(cfg.OutputColor, cfg.OutputVerbose), nil
	}
}

// markdownWidth is the word-wrap width for rendered Markdown.
const markdownWidth = 100

// pipelineOpts derives per-invocation options from the resolved config.
func pipelineOpts(cfg *config.Config) PipelineOpts {
	return PipelineOpts{
		FailUnder: cfg.FailUnder,
		Quiet:     cfg.Output.Format != config.FormatCLI,
	}
}
