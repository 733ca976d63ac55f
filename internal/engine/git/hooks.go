package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/irahardianto/memsafe/internal/platform/logger"
)

const hookMarker = "# memsafe-managed"

// ErrForeignHook is returned when a pre-commit hook exists that memsafe did not write.
var ErrForeignHook = errors.New("pre-commit hook is not managed by memsafe")

// HookOptions controls the generated pre-commit script.
type HookOptions struct {
	// FailUnder is passed as --fail-under when non-negative; otherwise the
	// configured threshold applies at commit time.
	FailUnder int
}

// HookScript renders the pre-commit script for opts.
func HookScript(opts HookOptions) string {
	args := []string{"memsafe", "analyze", "--staged", "--no-color"}
	if opts.FailUnder >= 0 {
		args = append(args, fmt.Sprintf("--fail-under %d", opts.FailUnder))
	}

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString(hookMarker + "\n")
	b.WriteString("# Blocks commits whose staged C sources fail analysis or score below the threshold.\n")
	b.WriteString("# Run 'memsafe hook remove' to uninstall.\n")
	b.WriteString("exec " + strings.Join(args, " ") + "\n")
	return b.String()
}

// InstallHook writes the pre-commit hook. A managed hook is rewritten so a
// changed threshold takes effect; a foreign hook yields ErrForeignHook.
func (s *ExecService) InstallHook(ctx context.Context, opts HookOptions) error {
	log := logger.FromContext(ctx)

	hookPath, err := s.hookPath(ctx)
	if err != nil {
		return err
	}

	managed, exists, err := readHook(hookPath)
	if err != nil {
		return err
	}
	if exists && !managed {
		return fmt.Errorf("%w: %s (remove it or back it up first)", ErrForeignHook, hookPath)
	}

	if err := os.MkdirAll(filepath.Dir(hookPath), 0o750); err != nil {
		return fmt.Errorf("creating hooks directory: %w", err)
	}
	if err := os.WriteFile(hookPath, []byte(HookScript(opts)), 0o755); err != nil { // #nosec G306 -- hook must be executable
		return fmt.Errorf("writing hook script: %w", err)
	}

	log.Info("pre-commit hook installed", "path", hookPath, "replaced", exists)
	return nil
}

// RemoveHook deletes the managed pre-commit hook. A missing hook is not an error.
func (s *ExecService) RemoveHook(ctx context.Context) error {
	log := logger.FromContext(ctx)

	hookPath, err := s.hookPath(ctx)
	if err != nil {
		return err
	}

	managed, exists, err := readHook(hookPath)
	if err != nil {
		return err
	}
	if !exists {
		log.Info("no pre-commit hook found")
		return nil
	}
	if !managed {
		return fmt.Errorf("%w: %s", ErrForeignHook, hookPath)
	}

	if err := os.Remove(hookPath); err != nil {
		return fmt.Errorf("removing hook: %w", err)
	}
	log.Info("pre-commit hook removed", "path", hookPath)
	return nil
}

// readHook reports whether the hook at path exists and carries the marker.
func readHook(path string) (managed, exists bool, err error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is built from the git dir
	if errors.Is(err, os.ErrNotExist) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("reading hook: %w", err)
	}
	return strings.Contains(string(data), hookMarker), true, nil
}

// hookPath resolves .git/hooks/pre-commit via `git rev-parse --git-dir`.
func (s *ExecService) hookPath(ctx context.Context) (string, error) {
	out, err := s.runGit(ctx, "rev-parse", "--git-dir")
	if err != nil {
		return "", fmt.Errorf("finding .git directory: %w", err)
	}

	gitDir := strings.TrimSpace(out)
	if !filepath.IsAbs(gitDir) && s.WorkDir != "" {
		gitDir = filepath.Join(s.WorkDir, gitDir)
	}
	return filepath.Join(gitDir, "hooks", "pre-commit"), nil
}
