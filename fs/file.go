package fs

import "io"

// File is a writable handle returned by Filesystem.TempFile.
type File interface {
	io.WriteCloser

	// Name is the path of the file within its Filesystem.
	Name() string
}
