package constants

// JobStatus is the canonical status for rows in the detection job journal.
type JobStatus string

// Stable values (store these exact strings).
const (
	JobStatusQueued  JobStatus = "QUEUED"  // accepted, waiting for a worker
	JobStatusRunning JobStatus = "RUNNING" // pipeline run in progress
	JobStatusOK      JobStatus = "OK"      // completed with results
	JobStatusFailed  JobStatus = "FAILED"  // terminal failure
)
