package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to name so that readers observe either the
// previous content or the complete new content, never a partial file.
// The data goes to a temporary file in the same directory which gets its
// final mode, is flushed to disk and is then renamed over name. Parent
// directories are created as needed.
func WriteFileAtomic(fsys Filesystem, name string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(name)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("atomic write %q: %w", name, err)
	}

	tmp, err := fsys.TempFile(dir, "."+filepath.Base(name)+".tmp-")
	if err != nil {
		return fmt.Errorf("atomic write %q: %w", name, err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = fsys.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("atomic write %q: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("atomic write %q: %w", name, err)
	}

	if perm != 0 {
		if ch, ok := fsys.(Chmoder); ok {
			if err = ch.Chmod(tmpName, perm); err != nil {
				return fmt.Errorf("atomic write %q: %w", name, err)
			}
		}
	}

	if sy, ok := fsys.(Syncer); ok {
		if err = sy.Sync(tmpName); err != nil {
			return fmt.Errorf("atomic write %q: %w", name, err)
		}
	}

	if err = fsys.Rename(tmpName, name); err != nil {
		return fmt.Errorf("atomic write %q: %w", name, err)
	}

	return nil
}

// Chmoder is implemented by filesystems that support changing file modes.
type Chmoder interface {
	Chmod(name string, mode os.FileMode) error
}

// Syncer is implemented by filesystems that can flush a file to disk.
type Syncer interface {
	Sync(name string) error
}
