package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/input-output-hk/daily-contributor/config"
	"github.com/input-output-hk/daily-contributor/domain"
	perrors "github.com/input-output-hk/daily-contributor/errors"
	"github.com/input-output-hk/daily-contributor/git"
)

// Syncer brings the fork's mainline up to date with the upstream repository.
type Syncer struct {
	repo Repository
	cfg  *config.Config
	opts options
}

// NewSyncer returns a Syncer for repo.
func NewSyncer(repo Repository, cfg *config.Config, opts ...Option) *Syncer {
	return &Syncer{repo: repo, cfg: cfg, opts: newOptions(opts)}
}

// Sync ensures the upstream remote, fetches it, resolves the local mainline
// and fast-forwards it. It never returns an error: failures are logged at
// warning level and recorded in the result with state SyncFailed.
func (s *Syncer) Sync(ctx context.Context) domain.StageResult {
	start := time.Now()
	res := domain.StageResult{Stage: domain.StageSync, Policy: domain.PolicyBestEffort}

	reached, err := s.sync(ctx)
	res.Duration = time.Since(start)

	switch {
	case err != nil:
		res.Status = domain.StageStatusFailed
		res.State = domain.SyncStateFailed.String()
		res.Err = perrors.WrapWithContext(err, perrors.CodeSyncFailed, "sync with upstream failed",
			map[string]interface{}{"state": reached.String()})
		s.opts.logger.Warn("Could not fully sync with upstream",
			"remote", s.cfg.RemoteUpstream, "state", reached.String(), "error", err)
	case reached == domain.SyncStateSkipped:
		res.Status = domain.StageStatusSkipped
		res.State = reached.String()
	default:
		res.Status = domain.StageStatusSuccess
		res.State = reached.String()
	}

	return res
}

// sync returns the last state reached and the error that stopped it.
func (s *Syncer) sync(ctx context.Context) (domain.SyncState, error) {
	state := domain.SyncStateNoUpstream
	name := s.cfg.RemoteUpstream
	mainline := s.cfg.MainlineBranch

	_, err := s.repo.Remote(ctx, name)
	switch {
	case errors.Is(err, git.ErrRemoteMissing):
		url, ok := s.cfg.UpstreamURL()
		if !ok {
			s.opts.logger.Warn("No upstream URL configured, skipping sync", "remote", name)
			return domain.SyncStateSkipped, nil
		}
		if _, err := s.repo.CreateRemote(ctx, name, url); err != nil {
			return state, err
		}
		s.opts.logger.Info("Added upstream remote", "remote", name, "url", url)
	case err != nil:
		return state, err
	}
	state = domain.SyncStateUpstreamEnsured

	if err := s.repo.Fetch(ctx, name, false, 0); err != nil && !errors.Is(err, git.ErrAlreadyUpToDate) {
		return state, err
	}
	state = domain.SyncStateFetched

	if err := s.resolveMainline(ctx, name, mainline); err != nil {
		return state, err
	}
	state = domain.SyncStateMainlineResolved

	if err := s.repo.Pull(ctx, name, mainline); err != nil && !errors.Is(err, git.ErrAlreadyUpToDate) {
		return state, err
	}
	s.opts.logger.Info("Synchronized fork with upstream", "remote", name, "branch", mainline)

	return domain.SyncStateSynced, nil
}

// resolveMainline checks out the local mainline, creating it from the
// upstream branch or, failing that, from HEAD.
func (s *Syncer) resolveMainline(ctx context.Context, remote, mainline string) error {
	local, err := s.repo.BranchExists(ctx, mainline)
	if err != nil {
		return err
	}
	if local {
		return s.repo.CheckoutBranch(ctx, mainline, false, false)
	}

	tracked, err := s.repo.RemoteBranchExists(ctx, remote, mainline)
	if err != nil {
		return err
	}
	if tracked {
		s.opts.logger.Debug("Creating mainline from upstream", "branch", mainline, "remote", remote)
		return s.repo.CheckoutRemoteBranch(ctx, remote, mainline, mainline, true)
	}

	s.opts.logger.Warn("Mainline not found upstream, creating it from HEAD", "branch", mainline, "remote", remote)
	return s.repo.CheckoutBranch(ctx, mainline, true, false)
}
