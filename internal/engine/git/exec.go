package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/irahardianto/memsafe/internal/platform/logger"
)

// ExecService implements Service by running git commands via os/exec.
type ExecService struct {
	// WorkDir is the working directory for git commands.
	// If empty, the current directory is used.
	WorkDir string
}

// NewExecService creates a new ExecService with the given working directory.
func NewExecService(workDir string) *ExecService {
	return &ExecService{WorkDir: workDir}
}

// StagedFiles returns the list of staged file paths. Deletions are left out
// since there is nothing to read for them.
func (s *ExecService) StagedFiles(ctx context.Context) ([]string, error) {
	logger.FromContext(ctx).Debug("getting staged file list")

	out, err := s.runGit(ctx, "diff", "--cached", "--name-only", "--diff-filter=ACMR")
	if err != nil {
		return nil, fmt.Errorf("getting staged files: %w", err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return nil, nil
	}

	return strings.Split(out, "\n"), nil
}

// ShowStaged returns the content of path as recorded in the index.
func (s *ExecService) ShowStaged(ctx context.Context, path string) (string, error) {
	logger.FromContext(ctx).Debug("reading staged content", "file", path)

	out, err := s.runGit(ctx, "show", ":"+path)
	if err != nil {
		return "", fmt.Errorf("reading staged %s: %w", path, err)
	}
	return out, nil
}

// runGit executes a git command and returns the combined stdout.
func (s *ExecService) runGit(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...) // #nosec G204 -- args are controlled by the application, not user input
	cmd.Dir = s.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w (stderr: %s)", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}
