// Package git reads staged sources and manages the pre-commit hook.
package git

import (
	"context"
)

// StagedFile is a staged path together with its content in the index.
type StagedFile struct {
	Path    string
	Content string
}

// Service abstracts git operations for testability.
type Service interface {
	// StagedFiles returns the added, copied, modified or renamed paths in the index.
	StagedFiles(ctx context.Context) ([]string, error)
	// ShowStaged returns the staged content of path, which may differ from the working tree.
	ShowStaged(ctx context.Context, path string) (string, error)

	// InstallHook writes the memsafe pre-commit hook script in .git/hooks/.
	InstallHook(ctx context.Context, opts HookOptions) error
	// RemoveHook removes the memsafe pre-commit hook.
	RemoveHook(ctx context.Context) error
}
