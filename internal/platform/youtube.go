package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/kkdai/youtube/v2"

	"github.com/ytget/downloader-lite/internal/model"
)

// Container names
const (
	ContainerMP4  = "mp4"
	ContainerM4A  = "m4a"
	ContainerWebM = "webm"
)

// YouTubeProvider resolves and downloads YouTube videos. Single videos go
// through kkdai/youtube, playlists through ytdlp.
type YouTubeProvider struct {
	client    *youtube.Client
	playlists *PlaylistExpander

	mu     sync.Mutex
	videos map[string]*youtube.Video
}

// NewYouTubeProvider creates a provider with its own HTTP client
func NewYouTubeProvider() *YouTubeProvider {
	return &YouTubeProvider{
		client:    &youtube.Client{HTTPClient: &http.Client{}},
		playlists: NewPlaylistExpander(),
		videos:    make(map[string]*youtube.Video),
	}
}

// Resolve fetches the video metadata and its stream variants. The result is
// cached so a later Download can reuse the format list.
func (p *YouTubeProvider) Resolve(ctx context.Context, url string) (*model.MediaInfo, error) {
	video, err := p.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", url, err)
	}

	p.mu.Lock()
	p.videos[video.ID] = video
	p.mu.Unlock()

	return toMediaInfo(video), nil
}

// ExpandPlaylist returns the watch URLs of every playlist entry
func (p *YouTubeProvider) ExpandPlaylist(ctx context.Context, url string) ([]string, error) {
	return p.playlists.Expand(ctx, url)
}

// Download streams the variant into a new file in destDir named after the
// video title. An existing file with the same name is never overwritten.
func (p *YouTubeProvider) Download(ctx context.Context, variant model.StreamVariant, destDir string, onProgress func(transferred, total int64)) (string, error) {
	video, format, err := p.lookup(ctx, variant)
	if err != nil {
		return "", err
	}

	if err := CreateDirectoryIfNotExists(destDir); err != nil {
		return "", fmt.Errorf("failed to create destination: %w", err)
	}

	stream, size, err := p.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return "", fmt.Errorf("failed to open stream: %w", err)
	}
	defer stream.Close()

	total := size
	if total <= 0 {
		total = format.ContentLength
	}

	file, path, err := CreateUniqueFile(destDir, SanitizeFileName(video.Title), variant.Container)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}

	pw := &ProgressWriter{Writer: file, Total: total, OnUpdate: onProgress}
	_, copyErr := io.Copy(pw, contextReader{ctx: ctx, r: stream})
	closeErr := file.Close()
	if copyErr != nil {
		// partial files are left in place
		return path, fmt.Errorf("failed to write %s: %w", path, copyErr)
	}
	if closeErr != nil {
		return path, closeErr
	}

	_ = NotifyMediaScanner(path)
	return path, nil
}

// lookup finds the cached video and the format that matches the variant,
// resolving the video again if it was evicted or never resolved.
func (p *YouTubeProvider) lookup(ctx context.Context, variant model.StreamVariant) (*youtube.Video, *youtube.Format, error) {
	if variant.MediaID == "" {
		return nil, nil, errors.New("stream variant has no media id")
	}

	p.mu.Lock()
	video, ok := p.videos[variant.MediaID]
	p.mu.Unlock()

	if !ok {
		var err error
		video, err = p.client.GetVideoContext(ctx, variant.MediaID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve %s: %w", variant.MediaID, err)
		}
		p.mu.Lock()
		p.videos[video.ID] = video
		p.mu.Unlock()
	}

	format := findFormat(video.Formats, variant)
	if format == nil {
		return nil, nil, fmt.Errorf("format %d not found for video %s", variant.ID, video.ID)
	}
	return video, format, nil
}

func findFormat(formats youtube.FormatList, variant model.StreamVariant) *youtube.Format {
	for i := range formats {
		f := &formats[i]
		if f.ItagNo == variant.ID && (variant.MimeType == "" || f.MimeType == variant.MimeType) {
			return f
		}
	}
	return nil
}

func toMediaInfo(video *youtube.Video) *model.MediaInfo {
	variants := make([]model.StreamVariant, 0, len(video.Formats))
	for _, f := range video.Formats {
		variants = append(variants, toVariant(video.ID, f))
	}
	// highest bitrate first so selection picks the best matching stream
	sort.SliceStable(variants, func(i, j int) bool {
		return variants[i].Bitrate > variants[j].Bitrate
	})

	return &model.MediaInfo{
		ID:           video.ID,
		Title:        video.Title,
		Author:       video.Author,
		ThumbnailURL: bestThumbnail(video.Thumbnails),
		Variants:     variants,
	}
}

func toVariant(videoID string, f youtube.Format) model.StreamVariant {
	hasVideo := strings.HasPrefix(f.MimeType, "video/")
	hasAudio := f.AudioChannels > 0 || strings.HasPrefix(f.MimeType, "audio/")

	quality := f.QualityLabel
	if quality == "" {
		quality = f.AudioQuality
	}

	return model.StreamVariant{
		ID:            f.ItagNo,
		MediaID:       videoID,
		MimeType:      f.MimeType,
		Container:     mimeContainer(f.MimeType, hasVideo),
		Quality:       quality,
		HasVideo:      hasVideo,
		HasAudio:      hasAudio,
		Bitrate:       f.Bitrate,
		ContentLength: f.ContentLength,
	}
}

// mimeContainer maps `video/mp4; codecs="..."` to "mp4". Audio in an mp4
// container is reported as m4a.
func mimeContainer(mimeType string, hasVideo bool) string {
	mt := mimeType
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = mt[:i]
	}
	_, sub, ok := strings.Cut(strings.TrimSpace(mt), "/")
	if !ok || sub == "" {
		return ""
	}
	if sub == ContainerMP4 && !hasVideo {
		return ContainerM4A
	}
	return sub
}

func bestThumbnail(thumbs youtube.Thumbnails) string {
	best := ""
	var bestArea uint
	for _, t := range thumbs {
		if area := t.Width * t.Height; best == "" || area > bestArea {
			best = t.URL
			bestArea = area
		}
	}
	return best
}
