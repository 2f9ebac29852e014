package filesystem

import (
	"io/fs"
)

// FileSystem is the narrow set of file operations the catalog, producer and
// watcher need. Production code uses OSFileSystem; tests use MockFileSystem.
type FileSystem interface {
	// File operations
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm fs.FileMode) error
	Remove(path string) error

	// Directory operations
	ReadDir(path string) ([]fs.DirEntry, error)
	MkdirAll(path string, perm fs.FileMode) error

	// Path operations
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) bool
}
