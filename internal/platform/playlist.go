package platform

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"
)

// Timeout constants
const (
	DefaultPlaylistTimeout = 60 * time.Second
)

// URL parameters and separators
const (
	PlaylistParam  = "list="
	ParamSeparator = "&"
	PlaylistPath   = "/playlist"
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// PlaylistExpander turns a playlist URL into the URLs of its videos using the ytdlp library
type PlaylistExpander struct {
	timeout time.Duration
}

// NewPlaylistExpander creates a new expander
func NewPlaylistExpander() *PlaylistExpander {
	return &PlaylistExpander{
		timeout: DefaultPlaylistTimeout,
	}
}

// SetTimeout sets the timeout for expansion
func (p *PlaylistExpander) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// Expand returns the watch URLs of every video in the playlist, in playlist order
func (p *PlaylistExpander) Expand(ctx context.Context, rawURL string) ([]string, error) {
	if !IsPlaylistURL(rawURL) {
		return nil, fmt.Errorf("invalid playlist URL: %s", rawURL)
	}

	playlistID := extractPlaylistID(rawURL)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %s", rawURL)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	urls := make([]string, 0, len(items))
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		urls = append(urls, fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID))
	}
	return urls, nil
}

// IsPlaylistURL reports whether rawURL points at a playlist: either it carries
// a list= query parameter or its path is /playlist.
func IsPlaylistURL(rawURL string) bool {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return false
	}
	if u, err := url.Parse(rawURL); err == nil {
		if u.Query().Get("list") != "" || strings.HasPrefix(u.Path, PlaylistPath) {
			return true
		}
	}
	return extractPlaylistID(rawURL) != ""
}

// extractPlaylistID extracts the playlist ID from various URL formats
func extractPlaylistID(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if id := u.Query().Get("list"); id != "" {
			return id
		}
	}
	if strings.Contains(rawURL, PlaylistParam) {
		parts := strings.Split(rawURL, PlaylistParam)
		if len(parts) > 1 {
			playlistPart := parts[1]
			if strings.Contains(playlistPart, ParamSeparator) {
				playlistPart = strings.Split(playlistPart, ParamSeparator)[0]
			}
			return playlistPart
		}
	}
	return ""
}
