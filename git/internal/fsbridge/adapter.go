// Package fsbridge adapts fs.Filesystem to the billy filesystems and object
// storage go-git consumes.
package fsbridge

import (
	"fmt"

	"github.com/go-git/go-billy/v5"

	"github.com/input-output-hk/daily-contributor/fs"
	fsb "github.com/input-output-hk/daily-contributor/fs/billy"
)

// ToBillyFilesystem unwraps an fs.Filesystem created by the fs/billy package.
// Any other implementation is rejected.
//
//nolint:ireturn // go-git consumes billy.Filesystem
func ToBillyFilesystem(fsys fs.Filesystem) (billy.Filesystem, error) {
	billyFS, ok := fsys.(*fsb.FS)
	if !ok {
		return nil, fmt.Errorf("filesystem must be a billy.FS from fs/billy package, got %T", fsys)
	}

	return billyFS.Billy(), nil
}
