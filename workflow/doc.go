// Package workflow runs one daily contribution against a fork.
//
// A run is a fixed sequence of stages, each with an explicit failure policy:
//
//	LOCK          fatal        refuse to run while another run holds the fork
//	SYNC          best-effort  fast-forward the mainline from upstream
//	GENERATE      fatal        write the dated digest (sidecar is best-effort)
//	PUBLISH       fatal        commit the digest on its feature branch and push
//	ARCHIVE       best-effort  commit the logs directory to the log branch
//	PULL_REQUEST  best-effort  open a pull request with the GitHub CLI
//
// Best-effort stages never return errors; they record what happened in a
// domain.StageResult and log failures at warning level. Fatal stages return
// coded errors from the errors package and end the run.
//
// Usage:
//
//	runner := workflow.NewRunner(cfg, repo, fsys,
//	    workflow.WithLogger(logger),
//	    workflow.WithLocker(locker),
//	)
//	report, err := runner.Run(ctx, domain.Today())
package workflow
