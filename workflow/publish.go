package workflow

import (
	"context"
	"errors"

	"github.com/input-output-hk/daily-contributor/digest"
	"github.com/input-output-hk/daily-contributor/domain"
	perrors "github.com/input-output-hk/daily-contributor/errors"
	"github.com/input-output-hk/daily-contributor/git"
)

// Publication is the outcome of publishing a digest.
type Publication struct {
	Branch    string
	Path      string
	Message   string
	CommitSHA string

	// Created reports whether the feature branch was created by this run.
	Created bool

	// State is the last state reached, also on failure.
	State domain.PublishState
}

// Publisher commits a digest on its feature branch and pushes the branch.
type Publisher struct {
	repo Repository
	opts options
}

// NewPublisher returns a Publisher for repo.
func NewPublisher(repo Repository, opts ...Option) *Publisher {
	return &Publisher{repo: repo, opts: newOptions(opts)}
}

// Publish checks out (or creates) art.Branch, stages art.RelPath, commits it
// and pushes the branch to the configured remote. Every failure is returned
// as a CodePublishFailed error carrying the branch, path and state reached.
func (p *Publisher) Publish(ctx context.Context, art digest.Artifact) (Publication, error) {
	pub := Publication{
		Branch:  art.Branch,
		Path:    art.RelPath,
		Message: p.opts.message,
		State:   domain.PublishStatePending,
	}
	if pub.Message == "" {
		pub.Message = DigestMessage(art.RelPath)
	}

	if err := ValidateMessage(pub.Message); err != nil {
		return pub, p.fail(pub, err)
	}

	created, err := p.repo.CheckoutOrCreate(ctx, art.Branch)
	if err != nil {
		return pub, p.fail(pub, err)
	}
	pub.Created = created
	pub.State = domain.PublishStateBranchResolved
	p.opts.logger.Debug("Resolved feature branch", "branch", art.Branch, "created", created)

	if err := p.repo.Stage(ctx, art.RelPath); err != nil {
		return pub, p.fail(pub, err)
	}
	pub.State = domain.PublishStateStaged

	sha, err := p.repo.Commit(ctx, pub.Message, p.opts.signatureFor(ctx, p.repo), git.CommitOpts{})
	if err != nil {
		return pub, p.fail(pub, err)
	}
	pub.CommitSHA = sha
	pub.State = domain.PublishStateCommitted
	p.opts.logger.Info("Committed digest", "branch", art.Branch, "commit", sha, "message", pub.Message)

	if err := p.repo.Push(ctx, p.opts.remote, art.Branch, false); err != nil && !errors.Is(err, git.ErrAlreadyUpToDate) {
		return pub, p.fail(pub, err)
	}
	pub.State = domain.PublishStatePushed
	p.opts.logger.Info("Pushed branch", "branch", art.Branch, "remote", p.opts.remote)

	return pub, nil
}

func (p *Publisher) fail(pub Publication, err error) error {
	p.opts.logger.Error("Git operation failed",
		"branch", pub.Branch, "path", pub.Path, "state", pub.State.String(), "error", err)

	return perrors.WrapWithContext(err, perrors.CodePublishFailed, "publish failed",
		map[string]interface{}{
			"branch": pub.Branch,
			"path":   pub.Path,
			"state":  pub.State.String(),
		})
}
