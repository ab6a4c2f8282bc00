package git

import (
	"context"
	"fmt"
	"time"

	gobilly "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/input-output-hk/daily-contributor/fs"
	"github.com/input-output-hk/daily-contributor/git/internal/fsbridge"
)

const (
	// DefaultStorerCacheSize is the default size for the LRU object cache.
	DefaultStorerCacheSize = 1000

	// DefaultWorkdir is the default worktree directory name.
	DefaultWorkdir = "."

	// DefaultRemoteName is the remote that publishing pushes to.
	DefaultRemoteName = "origin"

	// BotName and BotEmail identify commits when no user identity is configured.
	BotName  = "daily-contributor"
	BotEmail = "daily-contributor@users.noreply.github.com"
)

// Options configures repository discovery/creation.
type Options struct {
	// FS is the REQUIRED filesystem root (OS or in-memory).
	// All repository state lives within this filesystem.
	FS fs.Filesystem

	// Workdir is the path within FS for the worktree root.
	// Defaults to ".".
	Workdir string

	// Bare indicates a repository without a worktree.
	Bare bool

	// StorerCacheSize sets the LRU objects cache entries.
	// Defaults to DefaultStorerCacheSize.
	StorerCacheSize int

	// Auth is an optional provider that resolves per-URL AuthMethod.
	// If nil, network operations are attempted anonymously.
	Auth AuthProvider

	// ShallowDepth sets the depth for clone operations. 0 means full history.
	ShallowDepth int
}

// Validate checks that the Options are properly configured.
func (o *Options) Validate() error {
	if o.FS == nil {
		return WrapError(ErrInvalidRef, "FS is required")
	}

	if o.StorerCacheSize < 0 {
		return WrapError(ErrInvalidRef, "StorerCacheSize cannot be negative")
	}

	if o.ShallowDepth < 0 {
		return WrapError(ErrInvalidRef, "ShallowDepth cannot be negative")
	}

	return nil
}

func (o *Options) applyDefaults() {
	if o.Workdir == "" {
		o.Workdir = DefaultWorkdir
	}

	if o.StorerCacheSize == 0 {
		o.StorerCacheSize = DefaultStorerCacheSize
	}
}

// AuthProvider resolves authentication methods for git operations.
type AuthProvider interface {
	// Method returns the transport.AuthMethod for the given remote URL.
	// A nil method means the URL is accessed anonymously.
	Method(remoteURL string) (transport.AuthMethod, error)
}

// Signature identifies the author/committer of a commit.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// CommitOpts configures commit creation behavior.
type CommitOpts struct {
	// AllowEmpty allows creating commits with nothing staged.
	AllowEmpty bool
}

// Repo is a handle on a working copy. It is not safe for concurrent writers;
// callers serialize access (see the lock package).
type Repo struct {
	repo     *git.Repository
	worktree *git.Worktree
	fs       fs.Filesystem
	options  Options
}

// Init creates a new git repository at the configured location.
func Init(ctx context.Context, opts *Options) (*Repo, error) {
	storage, worktreeFS, err := prepare(opts)
	if err != nil {
		return nil, err
	}

	repo, err := git.Init(storage, worktreeFS)
	if err != nil {
		return nil, WrapError(err, "failed to initialize repository")
	}

	return newRepo(repo, opts)
}

// Open opens an existing repository. For non-bare repositories both the
// .git directory and the worktree must be present.
func Open(ctx context.Context, opts *Options) (*Repo, error) {
	if err := ctx.Err(); err != nil {
		return nil, WrapError(err, "context cancelled")
	}

	storage, worktreeFS, err := prepare(opts)
	if err != nil {
		return nil, err
	}

	repo, err := git.Open(storage, worktreeFS)
	if err != nil {
		return nil, WrapError(err, "failed to open repository")
	}

	return newRepo(repo, opts)
}

// Clone creates a new repository by cloning remoteURL into the configured location.
func Clone(ctx context.Context, remoteURL string, opts *Options) (*Repo, error) {
	if remoteURL == "" {
		return nil, WrapError(ErrInvalidRef, "remote URL cannot be empty")
	}

	storage, worktreeFS, err := prepare(opts)
	if err != nil {
		return nil, err
	}

	cloneOpts := &git.CloneOptions{
		URL:          remoteURL,
		Depth:        opts.ShallowDepth,
		SingleBranch: opts.ShallowDepth > 0,
	}

	if opts.Auth != nil {
		authMethod, authErr := opts.Auth.Method(remoteURL)
		if authErr != nil {
			return nil, WrapError(ErrAuthRequired, authErr.Error())
		}
		cloneOpts.Auth = authMethod
	}

	repo, err := git.CloneContext(ctx, storage, worktreeFS, cloneOpts)
	if err != nil {
		return nil, WrapError(err, "failed to clone repository")
	}

	return newRepo(repo, opts)
}

// prepare validates opts and builds the object storage and worktree filesystem
// for the configured workdir.
//
//nolint:ireturn // billy.Filesystem is what go-git consumes
func prepare(opts *Options) (*filesystem.Storage, gobilly.Filesystem, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, WrapError(err, "invalid options")
	}

	opts.applyDefaults()

	billyFS, err := fsbridge.ToBillyFilesystem(opts.FS)
	if err != nil {
		return nil, nil, fmt.Errorf("filesystem conversion failed: %w", err)
	}

	scopedFS, err := billyFS.Chroot(opts.Workdir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to chroot to workdir %q: %w", opts.Workdir, err)
	}

	if opts.Bare {
		return fsbridge.NewStorage(scopedFS, opts.StorerCacheSize), nil, nil
	}

	dotGitFS, err := scopedFS.Chroot(".git")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to access .git directory: %w", err)
	}

	return fsbridge.NewStorage(dotGitFS, opts.StorerCacheSize), scopedFS, nil
}

func newRepo(repo *git.Repository, opts *Options) (*Repo, error) {
	r := &Repo{
		repo:    repo,
		fs:      opts.FS,
		options: *opts,
	}

	if !opts.Bare {
		worktree, err := repo.Worktree()
		if err != nil {
			return nil, WrapError(err, "failed to get worktree")
		}
		r.worktree = worktree
	}

	return r, nil
}

// Root returns the worktree root within the repository filesystem.
func (r *Repo) Root() string {
	return r.options.Workdir
}

// DefaultSignature returns the committer identity configured for the
// repository, falling back to the global git config and finally to the bot
// identity. When is set to the current time.
func (r *Repo) DefaultSignature(ctx context.Context) Signature {
	sig := Signature{When: time.Now()}

	for _, scope := range []config.Scope{config.LocalScope, config.GlobalScope} {
		cfg, err := r.repo.ConfigScoped(scope)
		if err != nil {
			continue
		}
		if sig.Name == "" {
			sig.Name = cfg.User.Name
		}
		if sig.Email == "" {
			sig.Email = cfg.User.Email
		}
	}

	if sig.Name == "" {
		sig.Name = BotName
	}
	if sig.Email == "" {
		sig.Email = BotEmail
	}

	return sig
}

// authFor resolves the auth method for the first URL of the named remote.
//
//nolint:ireturn // transport.AuthMethod is what go-git consumes
func (r *Repo) authFor(remote string) (transport.AuthMethod, error) {
	if r.options.Auth == nil {
		return nil, nil
	}

	rem, err := r.repo.Remote(remote)
	if err != nil {
		return nil, WrapErrorf(ErrRemoteMissing, "remote %q", remote)
	}

	urls := rem.Config().URLs
	if len(urls) == 0 {
		return nil, nil
	}

	method, err := r.options.Auth.Method(urls[0])
	if err != nil {
		return nil, WrapErrorf(ErrAuthRequired, "remote %q: %v", remote, err)
	}

	return method, nil
}
