// Package fs defines the filesystem abstraction shared by the repository
// handle and the digest producer. Implementations live in sub-packages;
// fs/billy backs it with go-billy so the same code runs against the OS or
// an in-memory tree.
package fs

import "os"

// Filesystem is the set of file operations the workflow needs.
// Paths are relative to the filesystem root. Errors for missing paths
// satisfy errors.Is(err, os.ErrNotExist).
type Filesystem interface {
	Exists(path string) (bool, error)
	MkdirAll(path string, perm os.FileMode) error
	ReadDir(dirname string) ([]os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	Remove(name string) error

	// Rename replaces newpath if it exists.
	Rename(oldpath, newpath string) error
	Stat(name string) (os.FileInfo, error)

	// TempFile creates a new uniquely named file in dir. The caller owns
	// closing and removing it.
	TempFile(dir, prefix string) (File, error)
	WriteFile(filename string, data []byte, perm os.FileMode) error
}
