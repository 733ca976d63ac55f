package git

import (
	"context"
	"fmt"
)

// MockService is a test double for git.Service.
type MockService struct {
	Files       []string
	FilesErr    error
	Contents    map[string]string
	ShowErr     error
	HookInstErr error
	HookRemErr  error

	// Installed records the options of the last InstallHook call.
	Installed *HookOptions
}

// StagedFiles returns the configured file list.
func (m *MockService) StagedFiles(_ context.Context) ([]string, error) {
	return m.Files, m.FilesErr
}

// ShowStaged returns the configured content for path.
func (m *MockService) ShowStaged(_ context.Context, path string) (string, error) {
	if m.ShowErr != nil {
		return "", m.ShowErr
	}
	content, ok := m.Contents[path]
	if !ok {
		return "", fmt.Errorf("path %s not in index", path)
	}
	return content, nil
}

// InstallHook records opts and returns the configured error.
func (m *MockService) InstallHook(_ context.Context, opts HookOptions) error {
	m.Installed = &opts
	return m.HookInstErr
}

// RemoveHook returns the configured error.
func (m *MockService) RemoveHook(_ context.Context) error {
	return m.HookRemErr
}
