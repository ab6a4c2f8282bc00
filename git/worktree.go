package git

import (
	"context"
	"errors"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Stage adds files or directories, given relative to the worktree root, to
// the index. Directories are staged recursively. A path that does not exist
// fails with ErrPathMissing and nothing after it is staged.
func (r *Repo) Stage(ctx context.Context, paths ...string) error {
	if r.worktree == nil {
		return WrapError(ErrInvalidRef, "cannot stage files in bare repository")
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return WrapError(err, "context cancelled")
		}

		p = cleanWorktreePath(p)
		if p == "" {
			return WrapError(ErrInvalidRef, "path cannot be empty")
		}

		if _, err := r.worktree.Filesystem.Lstat(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return WrapErrorf(ErrPathMissing, "cannot stage %q", p)
			}
			return WrapErrorf(err, "failed to stat %q", p)
		}

		if _, err := r.worktree.Add(p); err != nil {
			return WrapErrorf(err, "failed to stage %q", p)
		}
	}

	return nil
}

// HasStagedChanges reports whether the index differs from HEAD.
func (r *Repo) HasStagedChanges(ctx context.Context) (bool, error) {
	if r.worktree == nil {
		return false, WrapError(ErrInvalidRef, "bare repository has no index")
	}

	status, err := r.worktree.Status()
	if err != nil {
		return false, WrapError(err, "failed to get worktree status")
	}

	for _, fileStatus := range status {
		if fileStatus.Staging != git.Untracked && fileStatus.Staging != git.Unmodified {
			return true, nil
		}
	}

	return false, nil
}

// Commit records the index as a new commit on the current branch and returns
// its hash. It fails with ErrEmptyCommit when nothing is staged unless
// opts.AllowEmpty is set.
func (r *Repo) Commit(ctx context.Context, msg string, who Signature, opts CommitOpts) (string, error) {
	if r.worktree == nil {
		return "", WrapError(ErrInvalidRef, "cannot commit in bare repository")
	}

	if strings.TrimSpace(msg) == "" {
		return "", WrapError(ErrInvalidRef, "commit message cannot be empty")
	}

	if who.Name == "" || who.Email == "" {
		return "", WrapError(ErrInvalidRef, "committer name and email are required")
	}

	staged, err := r.HasStagedChanges(ctx)
	if err != nil {
		return "", err
	}

	if !staged && !opts.AllowEmpty {
		return "", WrapError(ErrEmptyCommit, "no changes staged for commit")
	}

	sig := &object.Signature{Name: who.Name, Email: who.Email, When: who.When}

	hash, err := r.worktree.Commit(msg, &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: opts.AllowEmpty,
	})
	if err != nil {
		if errors.Is(err, git.ErrEmptyCommit) {
			return "", ErrEmptyCommit
		}
		return "", WrapError(err, "failed to create commit")
	}

	return hash.String(), nil
}

// cleanWorktreePath normalizes p to the slash separated form go-git's index uses.
func cleanWorktreePath(p string) string {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	p = strings.TrimPrefix(p, "./")
	if p == "." || p == "/" {
		return ""
	}
	return strings.TrimPrefix(p, "/")
}
