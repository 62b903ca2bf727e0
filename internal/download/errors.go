package download

import (
	"errors"
	"fmt"
)

var (
	// ErrResolution is returned when a title or stream lookup fails
	ErrResolution = errors.New("resolution failed")

	// ErrPlaylist is returned when a playlist cannot be expanded
	ErrPlaylist = errors.New("playlist expansion failed")

	// ErrNoStreamAvailable is returned when no variant matches the requested format
	ErrNoStreamAvailable = errors.New("no compatible stream available")

	// ErrTransfer is returned when the byte transfer or the post-processing step fails
	ErrTransfer = errors.New("transfer failed")

	// ErrEmptyQueue is returned by Start when nothing is queued or running
	ErrEmptyQueue = errors.New("download queue is empty")

	// ErrNoDestination is returned by Start when no output directory is configured
	ErrNoDestination = errors.New("no download destination configured")

	// ErrDownloadsInProgress is returned by ClearAll and Close when jobs are active and the caller did not confirm
	ErrDownloadsInProgress = errors.New("downloads in progress")

	ErrInvalidURL    = errors.New("invalid url")
	ErrInvalidFormat = errors.New("invalid format")
	ErrClosed        = errors.New("download manager is closed")
)

// JobError describes the failure of a single job.
type JobError struct {
	JobID string
	URL   string
	Err   error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("job %s (%s): %v", e.JobID, e.URL, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// userMessage returns the short text shown next to a failed job.
func userMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoStreamAvailable):
		return "No compatible stream"
	case errors.Is(err, ErrResolution):
		return "Could not resolve video"
	case errors.Is(err, ErrTransfer):
		return "Download failed"
	default:
		return "Unexpected error"
	}
}
