package workflow

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/input-output-hk/daily-contributor/executor"
	"github.com/input-output-hk/daily-contributor/git"
)

// Repository is the subset of *git.Repo the stages drive.
type Repository interface {
	Remote(ctx context.Context, name string) (*git.Remote, error)
	CreateRemote(ctx context.Context, name, url string) (*git.Remote, error)
	BranchExists(ctx context.Context, name string) (bool, error)
	RemoteBranchExists(ctx context.Context, remote, branch string) (bool, error)
	CurrentBranch(ctx context.Context) (string, error)
	CheckoutBranch(ctx context.Context, name string, createIfMissing, force bool) error
	CheckoutOrCreate(ctx context.Context, name string) (bool, error)
	CheckoutRemoteBranch(ctx context.Context, remote, remoteBranch, localName string, track bool) error
	Fetch(ctx context.Context, remote string, prune bool, depth int) error
	Pull(ctx context.Context, remote, branch string) error
	Stage(ctx context.Context, paths ...string) error
	Commit(ctx context.Context, msg string, who git.Signature, opts git.CommitOpts) (string, error)
	Push(ctx context.Context, remote, branch string, force bool) error
	DefaultSignature(ctx context.Context) git.Signature
}

var _ Repository = (*git.Repo)(nil)

// Locker serializes runs against the same fork.
type Locker interface {
	Acquire() error
	Release() error
}

type options struct {
	logger    *slog.Logger
	signature *git.Signature
	now       func() time.Time
	remote    string
	message   string
	locker    Locker
	gh        executor.Runner
	rand      *rand.Rand
	activeLog string
}

// Option configures the stages and the Runner.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
		remote: git.DefaultRemoteName,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSignature sets the commit identity. Without it the repository's
// configured identity is used.
func WithSignature(sig git.Signature) Option {
	return func(o *options) {
		o.signature = &sig
	}
}

// WithClock sets the time source for commit timestamps and log archive
// messages.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithRemote sets the remote branches are pushed to. Defaults to origin.
func WithRemote(name string) Option {
	return func(o *options) {
		if name != "" {
			o.remote = name
		}
	}
}

// WithCommitMessage overrides the digest commit message. It must be a valid
// Conventional Commit.
func WithCommitMessage(msg string) Option {
	return func(o *options) {
		o.message = msg
	}
}

// WithLocker sets the run lock.
func WithLocker(l Locker) Option {
	return func(o *options) {
		o.locker = l
	}
}

// WithGitHubCLI sets the runner used to invoke gh.
func WithGitHubCLI(r executor.Runner) Option {
	return func(o *options) {
		o.gh = r
	}
}

// WithRand sets the random source for headline selection.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rand = r
	}
}

// WithActiveLog names the log file the current run writes to. The Archiver
// leaves it out so it never becomes tracked while still open.
func WithActiveLog(path string) Option {
	return func(o *options) {
		o.activeLog = path
	}
}

// signatureFor returns the configured identity or the repository default,
// stamped with the clock.
func (o *options) signatureFor(ctx context.Context, repo Repository) git.Signature {
	var sig git.Signature
	if o.signature != nil {
		sig = *o.signature
	} else {
		sig = repo.DefaultSignature(ctx)
	}
	sig.When = o.now()
	return sig
}
