// Package billy implements fs.Filesystem on top of go-billy. The OS backed
// variant is used for real working copies; the in-memory variant backs
// tests that need a repository without touching disk.
package billy

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/input-output-hk/daily-contributor/fs"
)

// FS is a go-billy filesystem seen through fs.Filesystem.
type FS struct {
	billy billy.Filesystem

	// osRoot is the on-disk root for filesystems built by NewOSFS.
	osRoot string
}

var _ fs.Filesystem = (*FS)(nil)

// NewFS wraps an existing go-billy filesystem.
func NewFS(fsys billy.Filesystem) *FS {
	return &FS{billy: fsys}
}

// NewInMemoryFS returns an empty in-memory filesystem.
func NewInMemoryFS() *FS {
	return NewFS(memfs.New())
}

// NewOSFS returns a filesystem rooted at dir on disk.
func NewOSFS(dir string) *FS {
	return &FS{billy: osfs.New(dir), osRoot: dir}
}

// Billy returns the wrapped filesystem for consumers that speak go-billy,
// such as go-git.
//
//nolint:ireturn // go-git consumes billy.Filesystem
func (b *FS) Billy() billy.Filesystem {
	return b.billy
}

// Root is the root path of the wrapped filesystem.
func (b *FS) Root() string {
	return b.billy.Root()
}

func (b *FS) Exists(path string) (bool, error) {
	_, err := b.billy.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, pathErr("stat", path, err)
}

func (b *FS) MkdirAll(path string, perm os.FileMode) error {
	return pathErr("mkdir", path, b.billy.MkdirAll(path, perm))
}

func (b *FS) ReadDir(dirname string) ([]os.FileInfo, error) {
	list, err := b.billy.ReadDir(dirname)
	return list, pathErr("readdir", dirname, err)
}

func (b *FS) ReadFile(path string) ([]byte, error) {
	data, err := util.ReadFile(b.billy, path)
	return data, pathErr("read", path, err)
}

func (b *FS) Remove(name string) error {
	return pathErr("remove", name, b.billy.Remove(name))
}

func (b *FS) Rename(oldpath, newpath string) error {
	return pathErr("rename", oldpath+" -> "+newpath, b.billy.Rename(oldpath, newpath))
}

func (b *FS) Stat(name string) (os.FileInfo, error) {
	info, err := b.billy.Stat(name)
	return info, pathErr("stat", name, err)
}

//nolint:ireturn // matches fs.Filesystem
func (b *FS) TempFile(dir, prefix string) (fs.File, error) {
	f, err := b.billy.TempFile(dir, prefix)
	if err != nil {
		return nil, pathErr("tempfile", dir, err)
	}
	return file{f}, nil
}

func (b *FS) WriteFile(filename string, data []byte, perm os.FileMode) error {
	return pathErr("write", filename, util.WriteFile(b.billy, filename, data, perm))
}

// Chmod sets the mode of name. go-billy's osfs does not expose mode
// changes, so OS backed filesystems go to the file directly; in-memory ones
// ignore it.
func (b *FS) Chmod(name string, mode os.FileMode) error {
	if ch, ok := b.billy.(billy.Change); ok {
		return pathErr("chmod", name, ch.Chmod(name, mode))
	}
	if b.osRoot == "" {
		return nil
	}
	return pathErr("chmod", name, os.Chmod(b.osPath(name), mode))
}

// Sync flushes name to stable storage. It is a no-op in memory.
func (b *FS) Sync(name string) error {
	if b.osRoot == "" {
		return nil
	}

	f, err := os.Open(b.osPath(name))
	if err != nil {
		return pathErr("sync", name, err)
	}
	defer f.Close()

	return pathErr("sync", name, f.Sync())
}

func (b *FS) osPath(name string) string {
	return filepath.Join(b.osRoot, filepath.FromSlash(name))
}

// pathErr tags err with the operation and path. A nil err stays nil and
// existing *os.PathError values are relabelled rather than nested.
func pathErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var pe *os.PathError
	if errors.As(err, &pe) {
		err = pe.Err
	}
	return &os.PathError{Op: "billy " + op, Path: path, Err: err}
}
