package commands

import (
	"io/fs"
	"os"

	"github.com/irahardianto/memsafe/internal/engine/config"
)

// osInitFS adds the write operations init needs to the read-only config file system.
type osInitFS struct {
	config.RealFileSystem
}

func (o *osInitFS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (o *osInitFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}
