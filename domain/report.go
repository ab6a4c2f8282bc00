package domain

import "time"

// StageResult records how a single stage ended.
type StageResult struct {
	// Stage identifies the step.
	Stage Stage `json:"stage"`

	// Policy is the failure policy the stage ran under.
	Policy Policy `json:"policy"`

	// Status is the outcome.
	Status StageStatus `json:"status"`

	// State is the last state the stage reached, e.g. "Fetched" or "Committed".
	State string `json:"state,omitempty"`

	// Err is the error that ended the stage, if any. For best-effort stages
	// it has already been logged and swallowed.
	Err error `json:"-"`

	// Error is the text of Err.
	Error string `json:"error,omitempty"`

	// Duration is the wall time spent in the stage.
	Duration time.Duration `json:"duration"`
}

// Failed reports whether the stage ended in failure.
func (r StageResult) Failed() bool {
	return r.Status == StageStatusFailed
}

// RunReport summarizes a run.
type RunReport struct {
	// RunID uniquely identifies the run (UUID).
	RunID string `json:"run_id"`

	// Date is the day the run produced content for.
	Date RunDate `json:"-"`

	// Branch is the feature branch the digest was published on.
	Branch string `json:"branch,omitempty"`

	// DigestPath is the digest location relative to the working-copy root.
	DigestPath string `json:"digest_path,omitempty"`

	// CommitSHA is the digest commit, once created.
	CommitSHA string `json:"commit_sha,omitempty"`

	// Stages lists stage results in execution order.
	Stages []StageResult `json:"stages"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// CompletedAt is when the run ended.
	CompletedAt time.Time `json:"completed_at"`
}

// Add appends a stage result, filling Error from Err.
func (r *RunReport) Add(res StageResult) {
	if res.Err != nil && res.Error == "" {
		res.Error = res.Err.Error()
	}
	r.Stages = append(r.Stages, res)
}

// Result returns the result for stage, if it ran.
func (r *RunReport) Result(stage Stage) (StageResult, bool) {
	for _, res := range r.Stages {
		if res.Stage == stage {
			return res, true
		}
	}
	return StageResult{}, false
}

// Failed reports whether any fatal stage failed.
func (r *RunReport) Failed() bool {
	for _, res := range r.Stages {
		if res.Policy == PolicyFatal && res.Failed() {
			return true
		}
	}
	return false
}
