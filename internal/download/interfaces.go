package download

import (
	"context"

	"github.com/ytget/downloader-lite/internal/model"
)

// MediaProvider resolves videos and transfers their streams.
type MediaProvider interface {
	// Resolve returns the title and downloadable variants of a single video
	Resolve(ctx context.Context, url string) (*model.MediaInfo, error)

	// ExpandPlaylist returns the individual video URLs of a playlist, in playlist order
	ExpandPlaylist(ctx context.Context, url string) ([]string, error)

	// Download writes the variant into destDir and returns the written file path.
	// onProgress is called with the bytes written so far and the expected total.
	Download(ctx context.Context, variant model.StreamVariant, destDir string, onProgress func(transferred, total int64)) (string, error)
}

// PostProcessor turns a downloaded file into the final artifact for its job.
// It is only invoked for audio jobs.
type PostProcessor interface {
	Finish(ctx context.Context, job model.Job, info *model.MediaInfo, path string) (string, error)
}

// Queue is the command and read surface used by presentation layers.
type Queue interface {
	AddURL(ctx context.Context, url string, format model.Format) ([]string, error)
	SetDestination(path string)
	Destination() string
	Start() error
	CancelAll()
	ClearAll(confirm bool) error
	Close(confirm bool) error

	Jobs() []model.Job
	Job(id string) (model.Job, bool)
	Stats() Stats
	GlobalPercent() int
	ActiveCount() int
	MaxConcurrent() int
}

var _ Queue = (*Manager)(nil)
