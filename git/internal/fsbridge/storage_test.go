package fsbridge

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorage(t *testing.T) {
	for _, size := range []int{-1, 0, 500} {
		mem := memfs.New()
		storage := NewStorage(mem, size)
		require.NotNil(t, storage)
		assert.Equal(t, mem, storage.Filesystem())
	}
}

func TestNewStorage_WritesThroughFilesystem(t *testing.T) {
	storage := NewStorage(memfs.New(), 1000)

	require.NoError(t, storage.Filesystem().MkdirAll("refs/heads", 0o755))
	_, err := storage.Filesystem().Stat("refs/heads")
	require.NoError(t, err)
}
