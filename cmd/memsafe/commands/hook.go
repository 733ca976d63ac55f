package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/irahardianto/memsafe/internal/engine/git"
	"github.com/irahardianto/memsafe/internal/platform/logger"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage the git pre-commit hook",
	Long: `The pre-commit hook runs "memsafe analyze --staged" and blocks commits
whose staged C sources fail analysis or score below fail_under.`,
}

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the pre-commit hook in the current repository",
	Long: `Writes .git/hooks/pre-commit. With --fail-under the threshold is baked
into the hook; without it the configured fail_under applies at commit time.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := workDirGit()
		if err != nil {
			return err
		}
		return installHook(cmd.Context(), svc, git.HookOptions{FailUnder: flagFailUnder}, cmd.OutOrStdout())
	},
}

var hookRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the memsafe pre-commit hook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := workDirGit()
		if err != nil {
			return err
		}
		return removeHook(cmd.Context(), svc, cmd.OutOrStdout())
	},
}

func init() {
	hookCmd.AddCommand(hookInstallCmd, hookRemoveCmd)
	rootCmd.AddCommand(hookCmd)
}

func workDirGit() (*git.ExecService, error) {
	projectDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return git.NewExecService(projectDir), nil
}

func installHook(ctx context.Context, svc git.Service, opts git.HookOptions, out io.Writer) error {
	log := logger.FromContext(ctx)
	if err := svc.InstallHook(ctx, opts); err != nil {
		return fmt.Errorf("installing hook: %w", err)
	}
	if opts.FailUnder >= 0 {
		fmt.Fprintf(out, "🔒 memsafe pre-commit hook installed (fail under %d)\n", opts.FailUnder)
	} else {
		fmt.Fprintln(out, "🔒 memsafe pre-commit hook installed")
	}
	log.Info("hook installed", "fail_under", opts.FailUnder)
	return nil
}

func removeHook(ctx context.Context, svc git.Service, out io.Writer) error {
	log := logger.FromContext(ctx)
	if err := svc.RemoveHook(ctx); err != nil {
		return fmt.Errorf("removing hook: %w", err)
	}
	fmt.Fprintln(out, "🔓 memsafe pre-commit hook removed")
	log.Info("hook removed")
	return nil
}
