package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

// Fetch fetches all branches of the specified remote into its
// remote-tracking references. It supports pruning stale remote branches and
// shallow fetching when depth > 0.
// Returns ErrAlreadyUpToDate if there is nothing to fetch.
func (r *Repo) Fetch(ctx context.Context, remote string, prune bool, depth int) error {
	if remote == "" {
		remote = DefaultRemoteName
	}

	auth, err := r.authFor(remote)
	if err != nil {
		return err
	}

	err = r.repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remote,
		Prune:      prune,
		Depth:      depth,
		Auth:       auth,
	})
	return translateSyncError(err, "failed to fetch from %q", remote)
}

// Pull fast-forwards the current branch to refs/remotes/<remote>/<branch> as
// recorded by the last Fetch. The worktree is updated to match; untracked
// files are preserved.
// Returns ErrNotFastForward if the current branch has diverged and
// ErrAlreadyUpToDate if it already contains the remote tip.
func (r *Repo) Pull(ctx context.Context, remote, branch string) error {
	if r.worktree == nil {
		return WrapError(ErrInvalidRef, "cannot pull in bare repository")
	}

	if remote == "" {
		remote = DefaultRemoteName
	}

	if branch == "" {
		return WrapError(ErrInvalidRef, "branch name cannot be empty")
	}

	if err := ctx.Err(); err != nil {
		return WrapError(err, "context cancelled")
	}

	remoteRef, err := r.repo.Reference(plumbing.NewRemoteReferenceName(remote, branch), true)
	if err != nil {
		return WrapErrorf(ErrBranchMissing, "remote branch %s/%s", remote, branch)
	}

	head, err := r.repo.Head()
	if err != nil {
		return WrapError(err, "failed to get HEAD reference")
	}

	if head.Hash() == remoteRef.Hash() {
		return ErrAlreadyUpToDate
	}

	headCommit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return WrapError(err, "failed to read HEAD commit")
	}

	remoteCommit, err := r.repo.CommitObject(remoteRef.Hash())
	if err != nil {
		return WrapErrorf(err, "failed to read %s/%s commit", remote, branch)
	}

	ahead, err := remoteCommit.IsAncestor(headCommit)
	if err != nil {
		return WrapError(err, "failed to compare histories")
	}
	if ahead {
		return ErrAlreadyUpToDate
	}

	ff, err := headCommit.IsAncestor(remoteCommit)
	if err != nil {
		return WrapError(err, "failed to compare histories")
	}
	if !ff {
		return WrapErrorf(ErrNotFastForward, "pull %s/%s", remote, branch)
	}

	return r.moveTo(head.Hash(), remoteRef.Hash(), false, func() error {
		if !head.Name().IsBranch() {
			return r.repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, remoteRef.Hash()))
		}
		return r.repo.Storer.SetReference(plumbing.NewHashReference(head.Name(), remoteRef.Hash()))
	})
}

// Push pushes a single local branch to the same name on the specified remote.
// Other local branches are never pushed. Force allows non-fast-forward updates.
// Returns ErrNotFastForward if the remote rejects the update and
// ErrAlreadyUpToDate if the remote already has the branch tip.
func (r *Repo) Push(ctx context.Context, remote, branch string, force bool) error {
	if remote == "" {
		remote = DefaultRemoteName
	}

	if branch == "" {
		return WrapError(ErrInvalidRef, "branch name cannot be empty")
	}

	auth, err := r.authFor(remote)
	if err != nil {
		return err
	}

	refName := plumbing.NewBranchReferenceName(branch)
	spec := config.RefSpec(fmt.Sprintf("%s:%s", refName, refName))
	if force {
		spec = "+" + spec
	}

	err = r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remote,
		RefSpecs:   []config.RefSpec{spec},
		Auth:       auth,
	})
	return translateSyncError(err, "failed to push %q to %q", branch, remote)
}

// translateSyncError maps go-git network errors onto the package sentinels.
func translateSyncError(err error, format string, args ...interface{}) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		return ErrAlreadyUpToDate
	case errors.Is(err, git.ErrRemoteNotFound):
		return WrapErrorf(ErrRemoteMissing, format, args...)
	case errors.Is(err, git.ErrNonFastForwardUpdate):
		return WrapErrorf(ErrNotFastForward, format, args...)
	default:
		return WrapErrorf(err, format, args...)
	}
}
