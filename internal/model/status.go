package model

import "fmt"

// JobStatus represents the status of a download job
type JobStatus string

const (
	// StatusPending means the job is queued but no worker owns it yet
	StatusPending JobStatus = "Pending"

	// StatusStarted means a worker was assigned and is resolving streams
	StatusStarted JobStatus = "Started"

	// StatusDownloading means the byte transfer is in progress
	StatusDownloading JobStatus = "Downloading"

	// StatusCompleted means the job finished successfully
	StatusCompleted JobStatus = "Completed"

	// StatusError means the job failed
	StatusError JobStatus = "Error"

	// StatusCancelled means the job was cancelled by the operator
	StatusCancelled JobStatus = "Cancelled"
)

var allowedTransitions = map[JobStatus]map[JobStatus]bool{
	StatusPending: {
		StatusStarted: true,
	},
	StatusStarted: {
		StatusDownloading: true,
		StatusError:       true,
		StatusCancelled:   true,
	},
	StatusDownloading: {
		StatusCompleted: true,
		StatusError:     true,
		StatusCancelled: true,
	},
	StatusCompleted: {},
	StatusError:     {},
	StatusCancelled: {},
}

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// IsActive returns true if a worker currently owns the job
func (s JobStatus) IsActive() bool {
	return s == StatusStarted || s == StatusDownloading
}

// IsFinished returns true if the job reached a terminal state (completed, error, or cancelled)
func (s JobStatus) IsFinished() bool {
	return s == StatusCompleted || s == StatusError || s == StatusCancelled
}

// IsKnownStatus reports whether s is one of the defined statuses.
func IsKnownStatus(s JobStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// UnmarshalText rejects statuses that are not defined, so a job decoded from
// JSON always has a status the transition table knows about.
func (s *JobStatus) UnmarshalText(text []byte) error {
	status := JobStatus(text)
	if !IsKnownStatus(status) {
		return fmt.Errorf("unknown job status: %q", string(text))
	}
	*s = status
	return nil
}

// CanTransition reports whether a job may move from one status to another.
func CanTransition(from, to JobStatus) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// TransitionJob moves job to status to, rejecting backwards or unknown moves.
func TransitionJob(job *Job, to JobStatus) error {
	from := job.Status
	if !CanTransition(from, to) {
		return fmt.Errorf("invalid job status transition: %q -> %q (job_id=%s)", from, to, job.ID)
	}
	job.Status = to
	return nil
}
