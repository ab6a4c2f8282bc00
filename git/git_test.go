package git

import (
	"context"
	"errors"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/daily-contributor/fs"
	fsb "github.com/input-output-hk/daily-contributor/fs/billy"
)

// foreignFS satisfies fs.Filesystem without being backed by billy.
type foreignFS struct {
	fs.Filesystem
}

type failingAuth struct{}

//nolint:ireturn // test stub
func (failingAuth) Method(string) (transport.AuthMethod, error) {
	return nil, errors.New("no credentials")
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "valid", opts: Options{FS: fsb.NewInMemoryFS()}},
		{name: "missing FS", opts: Options{}, wantErr: true},
		{name: "negative cache", opts: Options{FS: fsb.NewInMemoryFS(), StorerCacheSize: -1}, wantErr: true},
		{name: "negative depth", opts: Options{FS: fsb.NewInMemoryFS(), ShallowDepth: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidRef)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestInit(t *testing.T) {
	t.Run("non-bare applies defaults", func(t *testing.T) {
		tr := setupTestRepo(t, false)
		assert.NotNil(t, tr.repo.worktree)
		assert.Equal(t, DefaultWorkdir, tr.repo.Root())
		assert.Equal(t, DefaultStorerCacheSize, tr.repo.options.StorerCacheSize)
	})

	t.Run("bare has no worktree", func(t *testing.T) {
		tr := setupTestRepo(t, true)
		assert.Nil(t, tr.repo.worktree)

		err := tr.repo.Stage(tr.ctx, "x")
		assert.ErrorIs(t, err, ErrInvalidRef)
	})

	t.Run("rejects foreign filesystem", func(t *testing.T) {
		_, err := Init(context.Background(), &Options{FS: foreignFS{}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "filesystem conversion failed")
	})
}

func TestOpen(t *testing.T) {
	t.Run("reopens existing working copy", func(t *testing.T) {
		tr := setupTestRepoWithCommit(t)

		reopened, err := Open(tr.ctx, &Options{FS: tr.fs})
		require.NoError(t, err)

		head, err := reopened.repo.Head()
		require.NoError(t, err)
		assert.Equal(t, tr.refHash(t, plumbing.NewBranchReferenceName("master")), head.Hash())
	})

	t.Run("fails without repository", func(t *testing.T) {
		_, err := Open(context.Background(), &Options{FS: fsb.NewInMemoryFS()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open repository")
	})

	t.Run("honours cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Open(ctx, &Options{FS: fsb.NewInMemoryFS()})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestClone(t *testing.T) {
	t.Run("empty URL", func(t *testing.T) {
		_, err := Clone(context.Background(), "", &Options{FS: fsb.NewInMemoryFS()})
		assert.ErrorIs(t, err, ErrInvalidRef)
	})

	t.Run("auth failure", func(t *testing.T) {
		_, err := Clone(context.Background(), "https://example.com/x.git",
			&Options{FS: fsb.NewInMemoryFS(), Auth: failingAuth{}})
		assert.ErrorIs(t, err, ErrAuthRequired)
	})

	t.Run("clones served remote", func(t *testing.T) {
		loader := installTestServer(t)
		origin := newTestRemote(t, loader, "/remotes/origin.git")

		tr := cloneTestRepo(t, origin.URL)

		assert.Equal(t, "master", tr.currentBranch(t))
		content, err := tr.fs.ReadFile("README.md")
		require.NoError(t, err)
		assert.Equal(t, "seed\n", string(content))

		rem, err := tr.repo.Remote(tr.ctx, DefaultRemoteName)
		require.NoError(t, err)
		assert.Equal(t, origin.URL, rem.URL)
	})
}

func TestRepo_DefaultSignature(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	t.Run("falls back to bot identity", func(t *testing.T) {
		tr := setupTestRepo(t, false)

		sig := tr.repo.DefaultSignature(tr.ctx)
		assert.Equal(t, BotName, sig.Name)
		assert.Equal(t, BotEmail, sig.Email)
		assert.False(t, sig.When.IsZero())
	})

	t.Run("uses repository config", func(t *testing.T) {
		tr := setupTestRepo(t, false)

		cfg, err := tr.repo.repo.Config()
		require.NoError(t, err)
		cfg.User.Name = "Ada"
		cfg.User.Email = "ada@example.com"
		require.NoError(t, tr.repo.repo.SetConfig(cfg))

		sig := tr.repo.DefaultSignature(tr.ctx)
		assert.Equal(t, "Ada", sig.Name)
		assert.Equal(t, "ada@example.com", sig.Email)
	})
}
