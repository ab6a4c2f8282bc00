package git

import (
	"context"

	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

// CurrentBranch returns the name of the currently checked out branch.
// It returns an error if HEAD is detached or unborn.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", WrapError(err, "failed to get HEAD reference")
	}

	if !head.Name().IsBranch() {
		return "", WrapError(ErrResolveFailed, "HEAD is detached")
	}

	return head.Name().Short(), nil
}

// BranchExists reports whether the local branch exists.
func (r *Repo) BranchExists(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, WrapError(ErrInvalidRef, "branch name cannot be empty")
	}

	return r.referenceExists(plumbing.NewBranchReferenceName(name))
}

// CheckoutBranch switches to the specified branch.
// If createIfMissing is true, a missing branch is created at HEAD first.
// If force is true, uncommitted changes to tracked files are discarded.
// Untracked files are left in place either way; one the branch also tracks
// keeps its content and shows as modified.
func (r *Repo) CheckoutBranch(ctx context.Context, name string, createIfMissing, force bool) error {
	if err := ctx.Err(); err != nil {
		return WrapError(err, "context cancelled")
	}

	if r.worktree == nil {
		return WrapError(ErrInvalidRef, "cannot checkout in bare repository")
	}

	if name == "" {
		return WrapError(ErrInvalidRef, "branch name cannot be empty")
	}

	branchRefName := plumbing.NewBranchReferenceName(name)
	if err := branchRefName.Validate(); err != nil {
		return WrapErrorf(ErrInvalidRef, "branch %q: %v", name, err)
	}

	exists, err := r.referenceExists(branchRefName)
	if err != nil {
		return err
	}

	if !exists {
		if !createIfMissing {
			return WrapErrorf(ErrBranchMissing, "branch %q", name)
		}

		head, headErr := r.repo.Head()
		if headErr != nil {
			return WrapError(headErr, "failed to get HEAD reference")
		}

		if setErr := r.repo.Storer.SetReference(plumbing.NewHashReference(branchRefName, head.Hash())); setErr != nil {
			return WrapErrorf(setErr, "failed to create branch %q", name)
		}
	}

	if err := r.switchBranch(branchRefName, force); err != nil {
		return WrapErrorf(err, "failed to checkout branch %q", name)
	}

	return nil
}

// CheckoutOrCreate checks out the branch, creating it at HEAD when it does not
// exist. It reports whether the branch was created.
func (r *Repo) CheckoutOrCreate(ctx context.Context, name string) (bool, error) {
	exists, err := r.BranchExists(ctx, name)
	if err != nil {
		return false, err
	}

	if err := r.CheckoutBranch(ctx, name, !exists, false); err != nil {
		return false, err
	}

	return !exists, nil
}

// CheckoutRemoteBranch creates a local branch at the tip of
// refs/remotes/<remote>/<remoteBranch> and checks it out.
// If localName is empty, the remote branch name is used.
// If track is true, the branch is configured to track the remote branch.
func (r *Repo) CheckoutRemoteBranch(ctx context.Context, remote, remoteBranch, localName string, track bool) error {
	if r.worktree == nil {
		return WrapError(ErrInvalidRef, "cannot checkout in bare repository")
	}

	if remote == "" {
		return WrapError(ErrInvalidRef, "remote name cannot be empty")
	}

	if remoteBranch == "" {
		return WrapError(ErrInvalidRef, "remote branch name cannot be empty")
	}

	if localName == "" {
		localName = remoteBranch
	}

	remoteRef, err := r.repo.Reference(plumbing.NewRemoteReferenceName(remote, remoteBranch), true)
	if err != nil {
		return WrapErrorf(ErrResolveFailed, "remote branch %s/%s", remote, remoteBranch)
	}

	localBranchRef := plumbing.NewBranchReferenceName(localName)
	if exists, existsErr := r.referenceExists(localBranchRef); existsErr != nil {
		return existsErr
	} else if exists {
		return WrapErrorf(ErrBranchExists, "branch %q", localName)
	}

	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(localBranchRef, remoteRef.Hash())); err != nil {
		return WrapErrorf(err, "failed to create branch %q", localName)
	}

	if track {
		if err := r.repo.CreateBranch(&config.Branch{
			Name:   localName,
			Remote: remote,
			Merge:  plumbing.NewBranchReferenceName(remoteBranch),
		}); err != nil {
			return WrapErrorf(err, "failed to configure tracking for %q", localName)
		}
	}

	if err := r.switchBranch(localBranchRef, false); err != nil {
		return WrapErrorf(err, "failed to checkout branch %q", localName)
	}

	return nil
}
