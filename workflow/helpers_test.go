package workflow

import (
	"context"
	"log/slog"
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

	"github.com/input-output-hk/daily-contributor/config"
	"github.com/input-output-hk/daily-contributor/domain"
	"github.com/input-output-hk/daily-contributor/fs"
	fsb "github.com/input-output-hk/daily-contributor/fs/billy"
	"github.com/input-output-hk/daily-contributor/git"
)

var (
	testDate  = domain.NewRunDate(time.Date(2025, 10, 7, 0, 0, 0, 0, time.UTC))
	testClock = func() time.Time { return time.Date(2025, 10, 7, 9, 0, 0, 0, time.UTC) }
	testSig   = git.Signature{Name: "Test Bot", Email: "bot@example.com"}
)

type logEntry struct {
	level string
	msg   string
	attrs map[string]string
}

type testLogHandler struct {
	logs  *[]logEntry
	attrs []slog.Attr
}

func (h *testLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *testLogHandler) Handle(ctx context.Context, r slog.Record) error {
	entry := logEntry{level: r.Level.String(), msg: r.Message, attrs: map[string]string{}}
	for _, a := range h.attrs {
		entry.attrs[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		entry.attrs[a.Key] = a.Value.String()
		return true
	})
	*h.logs = append(*h.logs, entry)
	return nil
}

func (h *testLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &testLogHandler{logs: h.logs, attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...)}
}

func (h *testLogHandler) WithGroup(name string) slog.Handler { return h }

func newTestLogger() (*slog.Logger, *[]logEntry) {
	logs := &[]logEntry{}
	return slog.New(&testLogHandler{logs: logs}), logs
}

func findLog(logs []logEntry, level, msg string) (logEntry, bool) {
	for _, e := range logs {
		if e.level == level && e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

// remoteRepo is a repository served in-process for the file protocol.
type remoteRepo struct {
	URL     string
	repo    *gogit.Repository
	storage *memory.Storage
}

// installTestServer routes file:// transport to an in-process git server
// backed by the returned loader.
func installTestServer(t *testing.T) server.MapLoader {
	t.Helper()

	loader := server.MapLoader{}
	previous := client.Protocols["file"]
	client.InstallProtocol("file", server.NewClient(loader))
	t.Cleanup(func() { client.InstallProtocol("file", previous) })

	return loader
}

func register(t *testing.T, loader server.MapLoader, path string, storage *memory.Storage) {
	t.Helper()

	ep, err := transport.NewEndpoint(path)
	require.NoError(t, err)
	loader[ep.String()] = storage
}

// newOrigin registers a repository at path with one commit on master.
func newOrigin(t *testing.T, loader server.MapLoader, path string) *remoteRepo {
	t.Helper()

	storage := memory.NewStorage()
	repo, err := gogit.Init(storage, memfs.New())
	require.NoError(t, err)
	register(t, loader, path, storage)

	r := &remoteRepo{URL: path, repo: repo, storage: storage}
	r.commit(t, "README.md", "seed\n")

	return r
}

// newUpstream clones from at path and checks out branch, so the fork and the
// upstream share history.
func newUpstream(t *testing.T, loader server.MapLoader, from *remoteRepo, path, branch string) *remoteRepo {
	t.Helper()

	storage := memory.NewStorage()
	repo, err := gogit.Clone(storage, memfs.New(), &gogit.CloneOptions{URL: from.URL})
	require.NoError(t, err)
	register(t, loader, path, storage)

	if branch != "master" {
		wt, err := repo.Worktree()
		require.NoError(t, err)
		require.NoError(t, wt.Checkout(&gogit.CheckoutOptions{
			Branch: plumbing.NewBranchReferenceName(branch),
			Create: true,
		}))
	}

	return &remoteRepo{URL: path, repo: repo, storage: storage}
}

func (r *remoteRepo) commit(t *testing.T, name, content string) plumbing.Hash {
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

// headCommit returns the tip commit of branch, or nil when it does not exist.
func (r *remoteRepo) headCommit(t *testing.T, branch string) *object.Commit {
	t.Helper()

	ref, err := r.storage.Reference(plumbing.NewBranchReferenceName(branch))
	if err != nil {
		return nil
	}

	c, err := r.repo.CommitObject(ref.Hash())
	require.NoError(t, err)

	return c
}

// fileOnBranch returns the content of name at the tip of branch.
func (r *remoteRepo) fileOnBranch(t *testing.T, branch, name string) (string, bool) {
	t.Helper()

	c := r.headCommit(t, branch)
	if c == nil {
		return "", false
	}

	f, err := c.File(name)
	if err != nil {
		return "", false
	}

	content, err := f.Contents()
	require.NoError(t, err)

	return content, true
}

// fork is a working copy on an in-memory filesystem.
type fork struct {
	ctx  context.Context
	fs   fs.Filesystem
	repo *git.Repo
}

func cloneFork(t *testing.T, url string) *fork {
	t.Helper()

	ctx := context.Background()
	memFS := fsb.NewInMemoryFS()

	repo, err := git.Clone(ctx, url, &git.Options{FS: memFS})
	require.NoError(t, err)

	return &fork{ctx: ctx, fs: memFS, repo: repo}
}

// initFork creates a working copy with one commit and no remotes.
func initFork(t *testing.T) *fork {
	t.Helper()

	ctx := context.Background()
	memFS := fsb.NewInMemoryFS()

	repo, err := git.Init(ctx, &git.Options{FS: memFS})
	require.NoError(t, err)

	require.NoError(t, memFS.WriteFile("README.md", []byte("local\n"), 0o644))
	require.NoError(t, repo.Stage(ctx, "README.md"))
	_, err = repo.Commit(ctx, "chore: init", git.Signature{Name: "n", Email: "e@example.com", When: testClock()}, git.CommitOpts{})
	require.NoError(t, err)

	return &fork{ctx: ctx, fs: memFS, repo: repo}
}

func (f *fork) currentBranch(t *testing.T) string {
	t.Helper()

	branch, err := f.repo.CurrentBranch(f.ctx)
	require.NoError(t, err)

	return branch
}

func (f *fork) readFile(t *testing.T, name string) string {
	t.Helper()

	data, err := f.fs.ReadFile(name)
	require.NoError(t, err)

	return string(data)
}

func testConfig() *config.Config {
	return &config.Config{
		ForkPath:       "/srv/fork",
		RemoteUpstream: config.DefaultRemoteUpstream,
		UpstreamHost:   config.DefaultUpstreamHost,
		NewsDir:        config.DefaultNewsDir,
		MainlineBranch: config.DefaultMainline,
		LogBranch:      config.DefaultLogBranch,
		LogDir:         config.DefaultLogDir,
		LogLevel:       config.DefaultLogLevel,
	}
}

// faultyRepo injects errors into selected Repository calls.
type faultyRepo struct {
	Repository

	remoteErr error
	fetchErr  error
	pushErr   error
}

func (f *faultyRepo) Remote(ctx context.Context, name string) (*git.Remote, error) {
	if f.remoteErr != nil {
		return nil, f.remoteErr
	}
	return f.Repository.Remote(ctx, name)
}

func (f *faultyRepo) Fetch(ctx context.Context, remote string, prune bool, depth int) error {
	if f.fetchErr != nil {
		return f.fetchErr
	}
	return f.Repository.Fetch(ctx, remote, prune, depth)
}

func (f *faultyRepo) Push(ctx context.Context, remote, branch string, force bool) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	return f.Repository.Push(ctx, remote, branch, force)
}
