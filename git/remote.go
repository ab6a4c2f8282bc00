package git

import (
	"context"
	"errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

// Remote describes a configured remote.
type Remote struct {
	Name string
	URL  string
}

// Remote returns the named remote, or ErrRemoteMissing when it is not configured.
func (r *Repo) Remote(ctx context.Context, name string) (*Remote, error) {
	if name == "" {
		return nil, WrapError(ErrInvalidRef, "remote name cannot be empty")
	}

	rem, err := r.repo.Remote(name)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return nil, WrapErrorf(ErrRemoteMissing, "remote %q", name)
		}
		return nil, WrapErrorf(err, "failed to read remote %q", name)
	}

	out := &Remote{Name: name}
	if urls := rem.Config().URLs; len(urls) > 0 {
		out.URL = urls[0]
	}

	return out, nil
}

// CreateRemote configures a new remote with the default fetch refspec.
// It returns ErrRemoteExists when the name is already taken.
func (r *Repo) CreateRemote(ctx context.Context, name, url string) (*Remote, error) {
	if name == "" || url == "" {
		return nil, WrapError(ErrInvalidRef, "remote name and URL are required")
	}

	_, err := r.repo.CreateRemote(&config.RemoteConfig{
		Name: name,
		URLs: []string{url},
	})
	if err != nil {
		if errors.Is(err, git.ErrRemoteExists) {
			return nil, WrapErrorf(ErrRemoteExists, "remote %q", name)
		}
		return nil, WrapErrorf(err, "failed to create remote %q", name)
	}

	return &Remote{Name: name, URL: url}, nil
}

// RemoteBranchExists reports whether the remote-tracking reference
// refs/remotes/<remote>/<branch> exists locally.
func (r *Repo) RemoteBranchExists(ctx context.Context, remote, branch string) (bool, error) {
	if remote == "" || branch == "" {
		return false, WrapError(ErrInvalidRef, "remote and branch names are required")
	}

	return r.referenceExists(plumbing.NewRemoteReferenceName(remote, branch))
}

func (r *Repo) referenceExists(name plumbing.ReferenceName) (bool, error) {
	_, err := r.repo.Reference(name, true)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	return false, WrapErrorf(err, "failed to read reference %q", name)
}
