package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/input-output-hk/daily-contributor/digest"
	"github.com/input-output-hk/daily-contributor/domain"
	"github.com/input-output-hk/daily-contributor/executor"
)

// PullRequestSpec describes the pull request to open.
type PullRequestSpec struct {
	// Base is the branch the pull request targets.
	Base string

	// Reviewer is requested for review when set.
	Reviewer string

	// Token is forwarded to gh as GH_TOKEN when set.
	Token string

	// WorkingDir is the working copy gh runs in.
	WorkingDir string
}

// PullRequester opens a pull request for a published digest with the GitHub
// CLI.
type PullRequester struct {
	spec PullRequestSpec
	opts options
}

// NewPullRequester returns a PullRequester. Without WithGitHubCLI it runs gh
// from PATH.
func NewPullRequester(spec PullRequestSpec, opts ...Option) *PullRequester {
	o := newOptions(opts)
	if o.gh == nil {
		o.gh = executor.NewProgram("gh", executor.WithLogger(o.logger))
	}
	return &PullRequester{spec: spec, opts: o}
}

// Args returns the gh arguments for art.
func (p *PullRequester) Args(d domain.RunDate, art digest.Artifact) []string {
	args := []string{
		"pr", "create",
		"--head", art.Branch,
		"--base", p.spec.Base,
		"--title", "Daily digest " + d.String(),
		"--body", art.Content,
	}
	if p.spec.Reviewer != "" {
		args = append(args, "--reviewer", p.spec.Reviewer)
	}
	return args
}

// Open runs gh pr create for art. It never returns an error; failures are
// logged at warning level and recorded in the result.
func (p *PullRequester) Open(ctx context.Context, d domain.RunDate, art digest.Artifact) domain.StageResult {
	start := time.Now()
	res := domain.StageResult{Stage: domain.StagePullRequest, Policy: domain.PolicyBestEffort}

	var opts []executor.Option
	if p.spec.WorkingDir != "" {
		opts = append(opts, executor.WithWorkingDir(p.spec.WorkingDir))
	}
	if p.spec.Token != "" {
		opts = append(opts, executor.WithEnvVar("GH_TOKEN", p.spec.Token))
	}

	out, err := p.opts.gh.Execute(ctx, p.Args(d, art), opts...)
	res.Duration = time.Since(start)

	if err != nil {
		res.Status = domain.StageStatusFailed
		res.Err = err
		p.opts.logger.Warn("Could not open pull request", "branch", art.Branch, "base", p.spec.Base, "error", err)
		return res
	}

	res.Status = domain.StageStatusSuccess
	res.State = "Opened"
	p.opts.logger.Info("Opened pull request", "branch", art.Branch, "url", strings.TrimSpace(out.Stdout))

	return res
}
