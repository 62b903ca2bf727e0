package download

import "github.com/ytget/downloader-lite/internal/model"

// EventKind identifies what happened in the queue
type EventKind int

const (
	EventJobAdded EventKind = iota + 1
	EventJobStatusChanged
	EventJobProgress
	EventGlobalProgress
	EventAllComplete
	EventJobError
	EventQueueCleared
)

// String returns the string representation of EventKind
func (k EventKind) String() string {
	switch k {
	case EventJobAdded:
		return "JobAdded"
	case EventJobStatusChanged:
		return "JobStatusChanged"
	case EventJobProgress:
		return "JobProgress"
	case EventGlobalProgress:
		return "GlobalProgress"
	case EventAllComplete:
		return "AllComplete"
	case EventJobError:
		return "JobError"
	case EventQueueCleared:
		return "QueueCleared"
	default:
		return "Unknown"
	}
}

// Event is a single notification for a presentation sink. Only the fields
// relevant to Kind are set:
//
//	JobAdded          JobID, Title, URL, Status
//	JobStatusChanged  JobID, Status
//	JobProgress       JobID, Percent
//	GlobalProgress    Percent
//	AllComplete       Completed, Total
//	JobError          JobID, URL, Err
//	QueueCleared      none
type Event struct {
	Kind      EventKind
	JobID     string
	Title     string
	URL       string
	Status    model.JobStatus
	Percent   int
	Completed int
	Total     int
	Err       error
}

// EventHandler receives queue events one at a time, in the order they were
// produced. A handler may call back into the Manager, but it must not wait on
// CancelAll, ClearAll or Close from inside the callback; dispatch such calls to
// another goroutine instead.
type EventHandler func(Event)
