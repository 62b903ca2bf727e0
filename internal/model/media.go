package model

// StreamVariant is one encoded rendition of a video offered by a provider
type StreamVariant struct {
	ID            int    `json:"id"`       // provider specific, itag for YouTube
	MediaID       string `json:"media_id"` // video the variant belongs to
	MimeType      string `json:"mime_type"`
	Container     string `json:"container"` // mp4, webm, m4a
	Quality       string `json:"quality,omitempty"`
	HasVideo      bool   `json:"has_video"`
	HasAudio      bool   `json:"has_audio"`
	Bitrate       int    `json:"bitrate,omitempty"`
	ContentLength int64  `json:"content_length,omitempty"`
}

// IsMuxed reports whether the variant carries both audio and video.
func (v StreamVariant) IsMuxed() bool {
	return v.HasVideo && v.HasAudio
}

// IsAudioOnly reports whether the variant carries audio without video.
func (v StreamVariant) IsAudioOnly() bool {
	return v.HasAudio && !v.HasVideo
}

// MediaInfo is the resolved metadata for a single video
type MediaInfo struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Author       string          `json:"author,omitempty"`
	ThumbnailURL string          `json:"thumbnail_url,omitempty"`
	Variants     []StreamVariant `json:"variants"`
}

// SelectVariant picks the stream to download for the given format.
// Variants are expected in provider preference order; the first match wins.
// mp4 requires a muxed mp4 stream, mp3 requires an audio-only stream.
func SelectVariant(variants []StreamVariant, format Format) (StreamVariant, bool) {
	for _, v := range variants {
		switch format {
		case FormatVideoMp4:
			if v.IsMuxed() && v.Container == "mp4" {
				return v, true
			}
		case FormatAudioMp3:
			if v.IsAudioOnly() {
				return v, true
			}
		}
	}
	return StreamVariant{}, false
}
