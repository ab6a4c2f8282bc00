// Package errors provides coded errors for the daily contributor workflow.
// It extends Go's standard error handling with structured error codes,
// context preservation and the fatal/recoverable classification the run
// wrapper uses to pick an exit status.
package errors

// ErrorCode represents a specific error condition in the workflow.
// Error codes are string-based for debuggability and natural log output.
type ErrorCode string

const (
	// Resource errors.

	// CodeNotFound indicates a requested resource does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates a resource already exists and cannot be created again.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeConflict indicates a resource state conflict that prevents the operation,
	// such as another run holding the working-copy lock.
	CodeConflict ErrorCode = "CONFLICT"

	// Permission errors.

	// CodeUnauthorized indicates the remote rejected the available credentials.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Infrastructure errors.

	// CodeNetwork indicates a network operation failed.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// Workflow errors.

	// CodeSyncFailed indicates upstream synchronization failed. Recoverable.
	CodeSyncFailed ErrorCode = "SYNC_FAILED"

	// CodeGenerateFailed indicates the digest artifact could not be written.
	CodeGenerateFailed ErrorCode = "GENERATE_FAILED"

	// CodePublishFailed indicates a branch, commit or push failure while publishing.
	CodePublishFailed ErrorCode = "PUBLISH_FAILED"

	// CodeArchiveFailed indicates log archival failed. Recoverable.
	CodeArchiveFailed ErrorCode = "ARCHIVE_FAILED"

	// CodeExecutionFailed indicates an external command failed.
	CodeExecutionFailed ErrorCode = "EXECUTION_FAILED"

	// System errors.

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// Generic errors.

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// String returns the string representation of the ErrorCode.
func (c ErrorCode) String() string {
	return string(c)
}

// Recoverable reports whether errors with this code are handled as
// best-effort failures that must never abort a run.
func (c ErrorCode) Recoverable() bool {
	switch c {
	case CodeSyncFailed, CodeArchiveFailed:
		return true
	default:
		return false
	}
}
