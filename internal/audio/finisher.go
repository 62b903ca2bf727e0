package audio

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"

	"github.com/ytget/downloader-lite/internal/model"
	"github.com/ytget/downloader-lite/internal/platform"
)

// Mp3Extension is the extension given to finished audio files
const Mp3Extension = "mp3"

// ImageFetcher downloads thumbnails for cover art
type ImageFetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Options controls what Finisher writes besides the rename
type Options struct {
	// Tag writes title, artist and source comment frames
	Tag bool

	// EmbedCover attaches the video thumbnail as front cover; requires Tag
	EmbedCover bool

	Logger *log.Logger
}

// Finisher renames audio downloads to .mp3 and tags them.
type Finisher struct {
	opts    Options
	fetcher ImageFetcher
	logger  *log.Logger
}

// NewFinisher creates a Finisher. fetcher may be nil when covers are disabled.
func NewFinisher(opts Options, fetcher ImageFetcher) *Finisher {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Finisher{opts: opts, fetcher: fetcher, logger: logger}
}

// Finish moves path to a unique .mp3 name next to it and writes tags. A failed
// rename is returned as an error; tagging problems are only logged.
func (f *Finisher) Finish(ctx context.Context, job model.Job, info *model.MediaInfo, path string) (string, error) {
	finalPath := path
	if !strings.EqualFold(filepath.Ext(path), "."+Mp3Extension) {
		renamed, err := platform.RenameUnique(path, Mp3Extension)
		if err != nil {
			return "", fmt.Errorf("failed to rename %s: %w", path, err)
		}
		finalPath = renamed
	}

	if !f.opts.Tag {
		return finalPath, nil
	}

	var cover []byte
	if f.opts.EmbedCover && info != nil && info.ThumbnailURL != "" && f.fetcher != nil {
		cover = f.fetchCover(ctx, job, info.ThumbnailURL)
	}

	if err := writeTags(finalPath, job, info, cover); err != nil {
		f.logger.Printf("Warning: failed to tag job=%s url=%s path=%s: %v", job.ID, job.URL, finalPath, err)
	}
	return finalPath, nil
}

func (f *Finisher) fetchCover(ctx context.Context, job model.Job, url string) []byte {
	data, err := f.fetcher.Get(ctx, url)
	if err != nil {
		f.logger.Printf("Warning: failed to fetch cover job=%s url=%s: %v", job.ID, job.URL, err)
		return nil
	}
	resized, err := ResizeCover(data, CoverMaxSize)
	if err != nil {
		f.logger.Printf("Warning: failed to resize cover job=%s url=%s: %v", job.ID, job.URL, err)
		return nil
	}
	return resized
}

func writeTags(path string, job model.Job, info *model.MediaInfo, cover []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		tag = id3v2.NewEmptyTag()
	}
	defer tag.Close()

	title := job.Title
	artist := ""
	if info != nil {
		if info.Title != "" {
			title = info.Title
		}
		artist = info.Author
	}

	if title != "" && title != model.TitleUnavailable {
		tag.SetTitle(title)
	}
	if artist != "" {
		tag.SetArtist(artist)
	}

	tag.DeleteFrames(tag.CommonID("Comments"))
	tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding:    id3v2.EncodingUTF8,
		Language:    "eng",
		Description: "Source",
		Text:        job.URL,
	})

	if cover != nil {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     cover,
		})
	}

	return tag.Save()
}
