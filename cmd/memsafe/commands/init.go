package commands

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/irahardianto/memsafe/internal/engine/config"
	"github.com/irahardianto/memsafe/internal/platform/logger"
)

// InitFS abstracts file system operations needed by the init command.
type InitFS interface {
	Stat(name string) (fs.FileInfo, error)
	IsNotExist(err error) bool
	MkdirAll(path string, perm fs.FileMode) error
	WriteFile(name string, data []byte, perm fs.FileMode) error
	UserHomeDir() (string, error)
}

var flagForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented user configuration",
	Long: `Generate ~/.config/memsafe/config.yaml (or the --config path) for the
provider selected with --provider. API keys are left commented out; prefer
the OPENAI_API_KEY, GEMINI_API_KEY and HUGGINGFACE_API_TOKEN variables.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		log.Info("init started")

		if err := initConfig(ctx, &osInitFS{}, flagConfig, flagProvider, flagForce, cmd.OutOrStdout()); err != nil {
			return err
		}

		log.Info("init completed")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

// initConfig performs the init workflow with injected dependencies for testability.
func initConfig(_ context.Context, fsys InitFS, path, providerName string, force bool, out io.Writer) error {
	provider := config.ProviderOpenAI
	if providerName != "" {
		p, err := config.ParseProvider(providerName)
		if err != nil {
			return err
		}
		provider = p
	}

	// 1. Resolve the config path.
	if path == "" {
		home, err := fsys.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".config", "memsafe", "config.yaml")
	}

	// 2. Never clobber an existing file unless asked to.
	if _, err := fsys.Stat(path); err == nil && !force {
		fmt.Fprintf(out, "⚡ Config already exists at %s. Use --force to overwrite.\n", path)
		return nil
	} else if err != nil && !fsys.IsNotExist(err) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	// 3. Write the template.
	if err := fsys.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := fsys.WriteFile(path, []byte(config.GenerateConfigYAML(provider)), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(out, "✅ Wrote %s config to %s\n", provider, path)
	fmt.Fprintf(out, "🔑 Set %s before running memsafe analyze.\n", credentialEnv(provider))
	return nil
}

func credentialEnv(p config.Provider) string {
	switch p {
	case config.ProviderGemini:
		return "GEMINI_API_KEY"
	case config.ProviderHuggingFace:
		return "HUGGINGFACE_API_TOKEN"
	default:
		return "OPENAI_API_KEY"
	}
}
