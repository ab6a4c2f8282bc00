package workflow

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/input-output-hk/daily-contributor/config"
	"github.com/input-output-hk/daily-contributor/digest"
	"github.com/input-output-hk/daily-contributor/domain"
	perrors "github.com/input-output-hk/daily-contributor/errors"
	"github.com/input-output-hk/daily-contributor/fs"
	"github.com/input-output-hk/daily-contributor/git"
)

// Runner executes the stages of a run in order.
type Runner struct {
	cfg  *config.Config
	repo Repository
	fs   fs.Filesystem
	opts []Option
	base options
}

// NewRunner returns a Runner for the working copy at cfg.ForkPath. repo and
// fsys must both be rooted at that working copy.
func NewRunner(cfg *config.Config, repo Repository, fsys fs.Filesystem, opts ...Option) *Runner {
	return &Runner{
		cfg:  cfg,
		repo: repo,
		fs:   fsys,
		opts: opts,
		base: newOptions(opts),
	}
}

// Run performs one run for d. It returns an error only when a fatal stage
// fails; the report is returned in every case.
func (r *Runner) Run(ctx context.Context, d domain.RunDate) (*domain.RunReport, error) {
	runID := uuid.NewString()
	logger := r.base.logger.With("run_id", runID)
	opts := append(append([]Option(nil), r.opts...), WithLogger(logger))
	if r.cfg.AuthorName != "" || r.cfg.AuthorEmail != "" {
		opts = append(opts, WithSignature(r.signature(ctx)))
	}

	report := &domain.RunReport{
		RunID:     runID,
		Date:      d,
		StartedAt: r.base.now(),
	}

	logger.Info("Starting daily contributor workflow", append([]any{"date", d.String()}, r.cfg.Attrs()...)...)

	err := r.run(ctx, d, report, opts)

	report.CompletedAt = r.base.now()
	for _, res := range report.Stages {
		logger.Info("Stage finished",
			"stage", res.Stage.String(),
			"policy", res.Policy.String(),
			"status", res.Status.String(),
			"state", res.State,
			"duration", res.Duration,
			"error", res.Error)
	}

	if err != nil {
		logger.Error("Fatal error during workflow", "error", err)
		return report, err
	}

	logger.Info("Workflow finished successfully", "branch", report.Branch, "commit", report.CommitSHA)
	return report, nil
}

func (r *Runner) run(ctx context.Context, d domain.RunDate, report *domain.RunReport, opts []Option) error {
	if r.base.locker != nil {
		start := time.Now()
		res := domain.StageResult{Stage: domain.StageLock, Policy: domain.PolicyFatal}
		if err := r.base.locker.Acquire(); err != nil {
			res.Status = domain.StageStatusFailed
			res.Err = err
			res.Duration = time.Since(start)
			report.Add(res)
			return err
		}
		defer func() { _ = r.base.locker.Release() }()

		res.Status = domain.StageStatusSuccess
		res.State = "Acquired"
		res.Duration = time.Since(start)
		report.Add(res)
	}

	report.Add(NewSyncer(r.repo, r.cfg, opts...).Sync(ctx))

	art, err := r.generate(ctx, d, report, opts)
	if err != nil {
		return err
	}

	if err := r.publish(ctx, art, report, opts); err != nil {
		return err
	}

	if r.cfg.EnableLogBranch {
		dir, relErr := filepath.Rel(r.cfg.ForkPath, r.cfg.LogDirPath())
		if relErr != nil {
			dir = r.cfg.LogDirPath()
		}
		report.Add(NewArchiver(r.repo, r.fs, r.cfg.LogBranch, dir, opts...).Archive(ctx))
	} else {
		report.Add(skipped(domain.StageArchive))
	}

	if r.cfg.OpenPullRequest {
		pr := NewPullRequester(PullRequestSpec{
			Base:       r.cfg.MainlineBranch,
			Reviewer:   r.cfg.ApprovedUser,
			Token:      r.cfg.GitToken,
			WorkingDir: r.cfg.ForkPath,
		}, opts...)
		report.Add(pr.Open(ctx, d, art))
	} else {
		report.Add(skipped(domain.StagePullRequest))
	}

	return nil
}

func (r *Runner) generate(ctx context.Context, d domain.RunDate, report *domain.RunReport, opts []Option) (digest.Artifact, error) {
	o := newOptions(opts)
	start := time.Now()
	res := domain.StageResult{Stage: domain.StageGenerate, Policy: domain.PolicyFatal}

	popts := []digest.Option{
		digest.WithLogger(o.logger),
		digest.WithHeadlines(r.cfg.Headlines...),
		digest.WithNewsDir(r.cfg.NewsDir),
		digest.WithRoot(r.cfg.ForkPath),
	}
	if o.rand != nil {
		popts = append(popts, digest.WithRand(o.rand))
	}

	art, err := digest.NewProducer(r.fs, popts...).Generate(ctx, d)
	res.Duration = time.Since(start)
	if err != nil {
		res.Status = domain.StageStatusFailed
		res.Err = err
		report.Add(res)
		return art, err
	}

	res.Status = domain.StageStatusSuccess
	res.State = "Written"
	report.Add(res)
	report.Branch = art.Branch
	report.DigestPath = art.RelPath

	return art, nil
}

func (r *Runner) publish(ctx context.Context, art digest.Artifact, report *domain.RunReport, opts []Option) error {
	start := time.Now()
	pub, err := NewPublisher(r.repo, opts...).Publish(ctx, art)

	res := domain.StageResult{
		Stage:    domain.StagePublish,
		Policy:   domain.PolicyFatal,
		Status:   domain.StageStatusSuccess,
		State:    pub.State.String(),
		Err:      err,
		Duration: time.Since(start),
	}
	if err != nil {
		res.Status = domain.StageStatusFailed
	}
	report.Add(res)
	report.CommitSHA = pub.CommitSHA

	return err
}

// signature merges the configured author over the repository identity.
func (r *Runner) signature(ctx context.Context) git.Signature {
	sig := r.repo.DefaultSignature(ctx)
	if r.cfg.AuthorName != "" {
		sig.Name = r.cfg.AuthorName
	}
	if r.cfg.AuthorEmail != "" {
		sig.Email = r.cfg.AuthorEmail
	}
	return sig
}

func skipped(stage domain.Stage) domain.StageResult {
	return domain.StageResult{
		Stage:  stage,
		Policy: domain.PolicyBestEffort,
		Status: domain.StageStatusSkipped,
		State:  "Disabled",
	}
}

// ExitCode maps a Run error to a process exit code: 0 on success, 3 when
// another run holds the lock, 2 for configuration errors and 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case perrors.HasCode(err, perrors.CodeConflict):
		return 3
	case perrors.HasCode(err, perrors.CodeInvalidConfig):
		return 2
	default:
		return 1
	}
}
