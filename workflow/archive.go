package workflow

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/input-output-hk/daily-contributor/domain"
	perrors "github.com/input-output-hk/daily-contributor/errors"
	"github.com/input-output-hk/daily-contributor/fs"
	"github.com/input-output-hk/daily-contributor/git"
)

// Archiver commits the logs directory to a dedicated branch.
type Archiver struct {
	repo   Repository
	fs     fs.Filesystem
	branch string
	dir    string
	opts   options
}

// NewArchiver returns an Archiver that commits dir, relative to the root of
// fsys, to branch.
func NewArchiver(repo Repository, fsys fs.Filesystem, branch, dir string, opts ...Option) *Archiver {
	return &Archiver{
		repo:   repo,
		fs:     fsys,
		branch: branch,
		dir:    path.Clean(filepath.ToSlash(dir)),
		opts:   newOptions(opts),
	}
}

// Archive checks out the log branch, stages the closed log files, commits
// and pushes, then returns to the branch that was checked out before. A
// missing or empty logs directory is a no-op. It never returns an error;
// failures are logged at warning level and recorded in the result.
func (a *Archiver) Archive(ctx context.Context) domain.StageResult {
	start := time.Now()
	res := domain.StageResult{Stage: domain.StageArchive, Policy: domain.PolicyBestEffort}

	state, err := a.archive(ctx)
	res.Duration = time.Since(start)
	res.State = state

	switch {
	case err != nil:
		res.Status = domain.StageStatusFailed
		res.Err = perrors.WrapWithContext(err, perrors.CodeArchiveFailed, "archiving logs failed",
			map[string]interface{}{"branch": a.branch, "state": state})
		a.opts.logger.Warn("Could not push logs branch", "branch", a.branch, "state", state, "error", err)
	case state == archiveSkipped:
		res.Status = domain.StageStatusSkipped
	default:
		res.Status = domain.StageStatusSuccess
	}

	return res
}

const (
	archiveSkipped   = "NoLogs"
	archiveBranch    = "BranchResolved"
	archiveCommitted = "Committed"
	archivePushed    = "Pushed"
)

func (a *Archiver) archive(ctx context.Context) (state string, err error) {
	if a.dir == ".." || strings.HasPrefix(a.dir, "../") || path.IsAbs(a.dir) {
		return "", perrors.Newf(perrors.CodeInvalidConfig, "logs directory %q is outside the working copy", a.dir)
	}

	home, err := a.repo.CurrentBranch(ctx)
	if err != nil {
		return "", err
	}

	if _, err := a.repo.CheckoutOrCreate(ctx, a.branch); err != nil {
		return "", err
	}
	defer func() {
		// The next run starts from whatever is checked out, so the logs
		// branch never stays in the worktree.
		if backErr := a.repo.CheckoutBranch(context.WithoutCancel(ctx), home, false, false); backErr != nil {
			a.opts.logger.Warn("Could not return to branch", "branch", home, "error", backErr)
			if err == nil {
				err = backErr
			}
		}
	}()

	files, err := a.closedLogs()
	if err != nil {
		return archiveBranch, err
	}
	if len(files) == 0 {
		a.opts.logger.Info("No logs to push", "dir", a.dir)
		return archiveSkipped, nil
	}

	if err := a.repo.Stage(ctx, files...); err != nil {
		return archiveBranch, err
	}

	sig := a.opts.signatureFor(ctx, a.repo)
	msg := ArchiveMessage(sig.When.UTC().Format(time.RFC3339))
	if err := ValidateMessage(msg); err != nil {
		return archiveBranch, err
	}

	sha, err := a.repo.Commit(ctx, msg, sig, git.CommitOpts{})
	if errors.Is(err, git.ErrEmptyCommit) {
		a.opts.logger.Info("Logs unchanged, nothing to push", "dir", a.dir)
		return archiveSkipped, nil
	}
	if err != nil {
		return archiveBranch, err
	}
	a.opts.logger.Debug("Committed logs", "branch", a.branch, "commit", sha)

	if err := a.repo.Push(ctx, a.opts.remote, a.branch, false); err != nil && !errors.Is(err, git.ErrAlreadyUpToDate) {
		return archiveCommitted, err
	}
	a.opts.logger.Info("Logs pushed to branch", "branch", a.branch)

	return archivePushed, nil
}

// closedLogs lists the entries of the logs directory, leaving out the file
// the current run is still writing. A missing directory yields nothing.
func (a *Archiver) closedLogs() ([]string, error) {
	info, err := a.fs.Stat(a.dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, err
	case !info.IsDir():
		a.opts.logger.Info("Logs path is not a directory", "dir", a.dir)
		return nil, nil
	}

	entries, err := a.fs.ReadDir(a.dir)
	if err != nil {
		return nil, err
	}

	active := ""
	if a.opts.activeLog != "" {
		active = filepath.Base(a.opts.activeLog)
	}

	var files []string
	for _, e := range entries {
		if e.Name() == active {
			a.opts.logger.Debug("Leaving active log out of the archive", "file", e.Name())
			continue
		}
		files = append(files, path.Join(a.dir, e.Name()))
	}

	return files, nil
}
