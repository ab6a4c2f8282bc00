package git

import (
	"context"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/client"
	"github.com/go-git/go-git/v5/plumbing/transport/server"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/daily-contributor/fs"
	fsb "github.com/input-output-hk/daily-contributor/fs/billy"
)

var testSignature = Signature{
	Name:  "Test Bot",
	Email: "bot@example.com",
	When:  time.Date(2025, 10, 7, 9, 0, 0, 0, time.UTC),
}

// testRepo is a repository on an in-memory filesystem.
type testRepo struct {
	repo *Repo
	fs   fs.Filesystem
	ctx  context.Context
}

func setupTestRepo(t *testing.T, bare bool) *testRepo {
	t.Helper()

	ctx := context.Background()
	memFS := fsb.NewInMemoryFS()

	repo, err := Init(ctx, &Options{FS: memFS, Bare: bare, Workdir: "."})
	require.NoError(t, err, "failed to initialize test repository")

	return &testRepo{repo: repo, fs: memFS, ctx: ctx}
}

// setupTestRepoWithCommit creates a repository on master with test.txt committed.
func setupTestRepoWithCommit(t *testing.T) *testRepo {
	t.Helper()

	tr := setupTestRepo(t, false)
	tr.commitFile(t, "test.txt", "initial content")

	return tr
}

func (tr *testRepo) commitFile(t *testing.T, name, content string) string {
	t.Helper()

	require.NoError(t, tr.fs.WriteFile(name, []byte(content), 0o644))
	require.NoError(t, tr.repo.Stage(tr.ctx, name))

	sha, err := tr.repo.Commit(tr.ctx, "test: update "+name, testSignature, CommitOpts{})
	require.NoError(t, err)

	return sha
}

func (tr *testRepo) currentBranch(t *testing.T) string {
	t.Helper()

	branch, err := tr.repo.CurrentBranch(tr.ctx)
	require.NoError(t, err)

	return branch
}

func (tr *testRepo) refHash(t *testing.T, name plumbing.ReferenceName) plumbing.Hash {
	t.Helper()

	ref, err := tr.repo.repo.Reference(name, true)
	require.NoError(t, err, "reference %s should exist", name)

	return ref.Hash()
}

// testRemote is a repository served in-process for the file protocol.
type testRemote struct {
	URL     string
	repo    *gogit.Repository
	storage *memory.Storage
}

// installTestServer routes file:// transport to an in-process git server
// backed by the returned loader. The previous transport is restored on cleanup.
func installTestServer(t *testing.T) server.MapLoader {
	t.Helper()

	loader := server.MapLoader{}
	previous := client.Protocols["file"]
	client.InstallProtocol("file", server.NewClient(loader))
	t.Cleanup(func() { client.InstallProtocol("file", previous) })

	return loader
}

// newTestRemote registers a repository at path with one commit on master.
func newTestRemote(t *testing.T, loader server.MapLoader, path string) *testRemote {
	t.Helper()

	storage := memory.NewStorage()
	repo, err := gogit.Init(storage, memfs.New())
	require.NoError(t, err)

	ep, err := transport.NewEndpoint(path)
	require.NoError(t, err)
	loader[ep.String()] = storage

	r := &testRemote{URL: path, repo: repo, storage: storage}
	r.commit(t, "README.md", "seed\n")

	return r
}

func (r *testRemote) commit(t *testing.T, name, content string) plumbing.Hash {
	t.Helper()

	wt, err := r.repo.Worktree()
	require.NoError(t, err)

	f, err := wt.Filesystem.Create(name)
	require.NoError(t, err)
	_, err = f.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = wt.Add(name)
	require.NoError(t, err)

	sig := &object.Signature{Name: "Upstream", Email: "upstream@example.com", When: time.Now()}
	hash, err := wt.Commit("chore: update "+name, &gogit.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)

	return hash
}

func (r *testRemote) branchHash(t *testing.T, branch string) (plumbing.Hash, bool) {
	t.Helper()

	ref, err := r.storage.Reference(plumbing.NewBranchReferenceName(branch))
	if err != nil {
		return plumbing.ZeroHash, false
	}
	return ref.Hash(), true
}

// cloneTestRepo clones url into a fresh in-memory filesystem.
func cloneTestRepo(t *testing.T, url string) *testRepo {
	t.Helper()

	ctx := context.Background()
	memFS := fsb.NewInMemoryFS()

	repo, err := Clone(ctx, url, &Options{FS: memFS})
	require.NoError(t, err)

	return &testRepo{repo: repo, fs: memFS, ctx: ctx}
}
