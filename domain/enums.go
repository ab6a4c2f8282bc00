package domain

// Stage identifies one step of a run.
type Stage string

const (
	// StageLock acquires the per-working-copy run lock.
	StageLock Stage = "LOCK"

	// StageSync brings the fork's mainline up to date with upstream.
	StageSync Stage = "SYNC"

	// StageGenerate writes the dated digest.
	StageGenerate Stage = "GENERATE"

	// StagePublish commits the digest on its feature branch and pushes it.
	StagePublish Stage = "PUBLISH"

	// StageArchive commits run logs to the log branch.
	StageArchive Stage = "ARCHIVE"

	// StagePullRequest opens a pull request for the feature branch.
	StagePullRequest Stage = "PULL_REQUEST"
)

// String returns the string representation of the Stage.
func (s Stage) String() string {
	return string(s)
}

// Policy decides what a stage failure means for the run.
type Policy string

const (
	// PolicyBestEffort failures are logged and the run continues.
	PolicyBestEffort Policy = "BEST_EFFORT"

	// PolicyFatal failures abort the run.
	PolicyFatal Policy = "FATAL"
)

// String returns the string representation of the Policy.
func (p Policy) String() string {
	return string(p)
}

// StageStatus is the outcome of a stage.
type StageStatus string

const (
	// StageStatusSuccess indicates the stage completed.
	StageStatusSuccess StageStatus = "SUCCESS"

	// StageStatusFailed indicates the stage failed.
	StageStatusFailed StageStatus = "FAILED"

	// StageStatusSkipped indicates the stage did not run or had nothing to do.
	StageStatusSkipped StageStatus = "SKIPPED"
)

// String returns the string representation of the StageStatus.
func (s StageStatus) String() string {
	return string(s)
}

// SyncState tracks progress of the sync stage.
type SyncState string

const (
	SyncStateNoUpstream       SyncState = "NoUpstream"
	SyncStateUpstreamEnsured  SyncState = "UpstreamEnsured"
	SyncStateFetched          SyncState = "Fetched"
	SyncStateMainlineResolved SyncState = "MainlineResolved"
	SyncStateSynced           SyncState = "Synced"
	SyncStateFailed           SyncState = "SyncFailed"
	SyncStateSkipped          SyncState = "SyncSkipped"
)

// String returns the string representation of the SyncState.
func (s SyncState) String() string {
	return string(s)
}

// PublishState tracks progress of the publish stage. The zero value means
// nothing has happened yet.
type PublishState string

const (
	PublishStatePending        PublishState = ""
	PublishStateBranchResolved PublishState = "BranchResolved"
	PublishStateStaged         PublishState = "Staged"
	PublishStateCommitted      PublishState = "Committed"
	PublishStatePushed         PublishState = "Pushed"
)

// String returns the string representation of the PublishState.
func (s PublishState) String() string {
	if s == PublishStatePending {
		return "Pending"
	}
	return string(s)
}
