package model

import (
	"fmt"
	"strings"
	"time"
)

// TitleUnavailable is shown for jobs whose title could not be resolved
const TitleUnavailable = "unavailable"

// Format is the output format selected for a job
type Format string

const (
	// FormatVideoMp4 downloads a muxed mp4 stream with audio and video
	FormatVideoMp4 Format = "mp4"

	// FormatAudioMp3 downloads an audio-only stream and stores it as .mp3
	FormatAudioMp3 Format = "mp3"
)

// String returns the string representation of Format
func (f Format) String() string {
	return string(f)
}

// IsValid reports whether f is a supported format.
func (f Format) IsValid() bool {
	return f == FormatVideoMp4 || f == FormatAudioMp3
}

// ParseFormat converts user input such as "MP3" or "mp4" into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("unsupported format: %q", s)
	}
	return f, nil
}

// Job represents a single requested download
type Job struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Status     JobStatus `json:"status"`
	Percent    int       `json:"percent"` // 0-100
	Format     Format    `json:"format"`
	Error      string    `json:"error,omitempty"`
	OutputPath string    `json:"output_path,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// GetDisplayTitle returns the title for display, falling back to the URL
func (j *Job) GetDisplayTitle() string {
	if j.Title != "" && j.Title != TitleUnavailable {
		return j.Title
	}
	if j.URL != "" {
		return j.URL
	}
	return TitleUnavailable
}

// Elapsed returns how long the job has been running, or ran in total once finished.
func (j *Job) Elapsed(now time.Time) time.Duration {
	if j.StartedAt.IsZero() {
		return 0
	}
	if !j.FinishedAt.IsZero() {
		return j.FinishedAt.Sub(j.StartedAt)
	}
	return now.Sub(j.StartedAt)
}
