package billy

import "github.com/go-git/go-billy/v5"

type file struct {
	billy.File
}

func (f file) Write(p []byte) (int, error) {
	n, err := f.File.Write(p)
	return n, pathErr("write", f.Name(), err)
}

func (f file) Close() error {
	return pathErr("close", f.Name(), f.File.Close())
}
