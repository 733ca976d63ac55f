package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MockFileSystem is an in-memory file system for testing.
// Directories are implied by the paths in Files.
type MockFileSystem struct {
	Files       map[string][]byte
	ReadErrors  map[string]error
	StatErrors  map[string]error
	UserHome    string
	UserHomeErr error
}

// NewMockFileSystem creates a new MockFileSystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files:      make(map[string][]byte),
		ReadErrors: make(map[string]error),
		StatErrors: make(map[string]error),
	}
}

// ReadFile returns the content of the file from memory.
func (m *MockFileSystem) ReadFile(name string) ([]byte, error) {
	if err, ok := m.ReadErrors[name]; ok {
		return nil, err
	}
	content, ok := m.Files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return content, nil
}

// ReadDir lists the direct children of name, sorted by file name.
func (m *MockFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	if !m.isDir(name) {
		return nil, os.ErrNotExist
	}
	prefix := name + string(filepath.Separator)
	children := make(map[string]bool)
	for path := range m.Files {
		rest, ok := strings.CutPrefix(path, prefix)
		if !ok {
			continue
		}
		child, _, nested := strings.Cut(rest, string(filepath.Separator))
		children[child] = children[child] || nested
	}

	names := make([]string, 0, len(children))
	for n := range children {
		names = append(names, n)
	}
	sort.Strings(names)

	entries := make([]fs.DirEntry, 0, len(names))
	for _, n := range names {
		entries = append(entries, &mockFileInfo{name: n, dir: children[n]})
	}
	return entries, nil
}

// UserHomeDir returns the configured user home directory.
func (m *MockFileSystem) UserHomeDir() (string, error) {
	if m.UserHomeErr != nil {
		return "", m.UserHomeErr
	}
	return m.UserHome, nil
}

// Stat returns a mock FileInfo.
func (m *MockFileSystem) Stat(name string) (fs.FileInfo, error) {
	if err, ok := m.StatErrors[name]; ok {
		return nil, err
	}
	if content, ok := m.Files[name]; ok {
		return &mockFileInfo{name: filepath.Base(name), size: int64(len(content))}, nil
	}
	if m.isDir(name) {
		return &mockFileInfo{name: filepath.Base(name), dir: true}, nil
	}
	return nil, os.ErrNotExist
}

// IsNotExist checks if the error is os.ErrNotExist.
func (m *MockFileSystem) IsNotExist(err error) bool {
	return os.IsNotExist(err)
}

func (m *MockFileSystem) isDir(name string) bool {
	prefix := name + string(filepath.Separator)
	for path := range m.Files {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// mockFileInfo implements fs.FileInfo and fs.DirEntry.
type mockFileInfo struct {
	name string
	size int64
	dir  bool
}

func (m *mockFileInfo) Name() string { return m.name }
func (m *mockFileInfo) Size() int64  { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode {
	if m.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}
func (m *mockFileInfo) ModTime() time.Time         { return time.Now() }
func (m *mockFileInfo) IsDir() bool                { return m.dir }
func (m *mockFileInfo) Sys() interface{}           { return nil }
func (m *mockFileInfo) Type() fs.FileMode          { return m.Mode().Type() }
func (m *mockFileInfo) Info() (fs.FileInfo, error) { return m, nil }
