package git

import (
	"errors"
	"os"

	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// savedFile is an untracked file kept across a worktree move.
type savedFile struct {
	path string
	data []byte
	mode os.FileMode
}

// switchBranch points HEAD at branch and moves the index and worktree from
// the current HEAD commit to the branch tip.
func (r *Repo) switchBranch(branch plumbing.ReferenceName, force bool) error {
	target, err := r.repo.Reference(branch, true)
	if err != nil {
		return WrapErrorf(ErrBranchMissing, "branch %q", branch.Short())
	}

	head, err := r.repo.Head()
	if err != nil {
		return WrapError(err, "failed to get HEAD reference")
	}

	return r.moveTo(head.Hash(), target.Hash(), force, func() error {
		return r.repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, branch))
	})
}

// moveTo updates the index and worktree from commit from to commit to.
// moveRefs runs once the worktree has been checked and before any file is
// touched; it is where callers repoint HEAD or a branch.
//
// Only paths that differ between the two trees are rewritten, so untracked
// files survive. An untracked file at a path the target tracks keeps its
// content and shows up as a modification. Without force, local changes to
// any differing path yield git.ErrUnstagedChanges; with force they are
// discarded along with every other tracked modification.
func (r *Repo) moveTo(from, to plumbing.Hash, force bool, moveRefs func() error) error {
	paths, inserted, err := r.treeChanges(from, to)
	if err != nil {
		return err
	}

	status, err := r.worktree.Status()
	if err != nil {
		return WrapError(err, "failed to read worktree status")
	}

	if force {
		for path, st := range status {
			if locallyChanged(st) {
				paths = append(paths, path)
			}
		}
	} else {
		for _, path := range paths {
			if st, ok := status[path]; ok && locallyChanged(st) {
				return WrapErrorf(git.ErrUnstagedChanges, "local changes to %q", path)
			}
		}
	}

	saved, err := r.saveUntracked(inserted)
	if err != nil {
		return err
	}

	if err := moveRefs(); err != nil {
		return WrapError(err, "failed to update references")
	}

	if len(paths) > 0 {
		if err := r.worktree.Reset(&git.ResetOptions{
			Commit: to,
			Mode:   git.HardReset,
			Files:  paths,
		}); err != nil {
			return WrapError(err, "failed to update worktree")
		}
	}

	for _, f := range saved {
		if err := util.WriteFile(r.worktree.Filesystem, f.path, f.data, f.mode); err != nil {
			return WrapErrorf(err, "failed to restore %q", f.path)
		}
	}

	return nil
}

// treeChanges lists the paths that differ between the trees of two commits
// and, separately, those only present in the second.
func (r *Repo) treeChanges(from, to plumbing.Hash) (paths, inserted []string, err error) {
	if from == to {
		return nil, nil, nil
	}

	fromTree, err := r.treeOf(from)
	if err != nil {
		return nil, nil, err
	}
	toTree, err := r.treeOf(to)
	if err != nil {
		return nil, nil, err
	}

	changes, err := object.DiffTree(fromTree, toTree)
	if err != nil {
		return nil, nil, WrapError(err, "failed to compare trees")
	}

	for _, ch := range changes {
		switch {
		case ch.From.Name == "":
			paths = append(paths, ch.To.Name)
			inserted = append(inserted, ch.To.Name)
		case ch.To.Name == "" || ch.From.Name == ch.To.Name:
			paths = append(paths, ch.From.Name)
		default:
			paths = append(paths, ch.From.Name, ch.To.Name)
			inserted = append(inserted, ch.To.Name)
		}
	}

	return paths, inserted, nil
}

func (r *Repo) treeOf(hash plumbing.Hash) (*object.Tree, error) {
	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, WrapErrorf(ErrResolveFailed, "commit %s", hash)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, WrapErrorf(err, "failed to read tree of %s", hash)
	}

	return tree, nil
}

// saveUntracked reads the worktree files at paths that exist on disk.
func (r *Repo) saveUntracked(paths []string) ([]savedFile, error) {
	var saved []savedFile
	for _, path := range paths {
		info, err := r.worktree.Filesystem.Lstat(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, WrapErrorf(err, "failed to stat %q", path)
		}
		if !info.Mode().IsRegular() {
			continue
		}

		data, err := util.ReadFile(r.worktree.Filesystem, path)
		if err != nil {
			return nil, WrapErrorf(err, "failed to read %q", path)
		}
		saved = append(saved, savedFile{path: path, data: data, mode: info.Mode().Perm()})
	}

	return saved, nil
}

func locallyChanged(st *git.FileStatus) bool {
	clean := func(c git.StatusCode) bool { return c == git.Unmodified || c == git.Untracked }
	return !clean(st.Staging) || !clean(st.Worktree)
}
