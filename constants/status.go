package constants

// FileStatus is the lifecycle state of one queued document within a pass.
type FileStatus string

const (
	FileStatusQueued  FileStatus = "QUEUED"
	FileStatusRunning FileStatus = "RUNNING"
	FileStatusOK      FileStatus = "OK"
	FileStatusFailed  FileStatus = "FAILED"
)

// FailureKind classifies why a document produced no record.
type FailureKind string

const (
	FailureUpstream    FailureKind = "upstream failure"
	FailureUnparseable FailureKind = "unparseable response"
	FailureInvalid     FailureKind = "invalid record"
)
