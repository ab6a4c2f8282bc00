package git

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. go-git errors are translated to these at the
// package boundary so callers never import go-git.
var (
	// ErrAlreadyUpToDate means a fetch, pull or push changed nothing.
	ErrAlreadyUpToDate = errors.New("already up to date")

	// ErrAuthRequired means no credentials could be resolved for a remote URL.
	ErrAuthRequired = errors.New("authentication required")

	ErrBranchExists  = errors.New("branch already exists")
	ErrBranchMissing = errors.New("branch does not exist")
	ErrRemoteMissing = errors.New("remote does not exist")
	ErrRemoteExists  = errors.New("remote already exists")

	// ErrNotFastForward means the local and remote histories diverged.
	ErrNotFastForward = errors.New("not a fast-forward")

	ErrInvalidRef    = errors.New("invalid reference")
	ErrResolveFailed = errors.New("cannot resolve revision")
	ErrPathMissing   = errors.New("path does not exist")
	ErrEmptyCommit   = errors.New("nothing to commit")
)

// WrapError prefixes err with msg. A nil err stays nil.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf is WrapError with a formatted prefix.
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
