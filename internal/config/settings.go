package config

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/downloader-lite/internal/model"
	"github.com/ytget/downloader-lite/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir = "download_directory"
	KeyMaxParallel = "max_parallel_downloads"
	KeyFormat      = "format"
	KeyTagAudio    = "tag_audio"
	KeyEmbedCover  = "embed_cover"
	KeyLogFile     = "log_file"
	KeyLanguage    = "app_language"
)

// Default values
const (
	DefaultMaxParallel = 3
	DefaultFormat      = model.FormatVideoMp4
	DefaultTagAudio    = true
	DefaultEmbedCover  = true
	DefaultLogFile     = "download.log"
	DefaultLanguage    = "system"
)

// Parallelism bounds
const (
	MinParallel = 1
	MaxParallel = 10
)

// FallbackDownloadDir is used when the user's Downloads directory cannot be determined
const FallbackDownloadDir = "/tmp/downloads"

// Settings manages application configuration stored in Fyne preferences
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		defaultDir := defaultDownloadDir()
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetMaxParallelDownloads returns the maximum number of parallel downloads
func (s *Settings) GetMaxParallelDownloads() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelDownloads(DefaultMaxParallel)
		return DefaultMaxParallel
	}
	return value
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Settings) SetMaxParallelDownloads(count int) {
	s.app.Preferences().SetInt(KeyMaxParallel, clampParallel(count))
}

// GetFormat returns the format selected for new jobs
func (s *Settings) GetFormat() model.Format {
	f, err := model.ParseFormat(s.app.Preferences().String(KeyFormat))
	if err != nil {
		s.SetFormat(DefaultFormat)
		return DefaultFormat
	}
	return f
}

// SetFormat sets the format selected for new jobs
func (s *Settings) SetFormat(f model.Format) {
	if !f.IsValid() {
		f = DefaultFormat
	}
	s.app.Preferences().SetString(KeyFormat, string(f))
}

// GetTagAudio returns whether audio downloads are tagged
func (s *Settings) GetTagAudio() bool {
	return s.app.Preferences().BoolWithFallback(KeyTagAudio, DefaultTagAudio)
}

// SetTagAudio sets whether audio downloads are tagged
func (s *Settings) SetTagAudio(tag bool) {
	s.app.Preferences().SetBool(KeyTagAudio, tag)
}

// GetEmbedCover returns whether the thumbnail is embedded as cover art
func (s *Settings) GetEmbedCover() bool {
	return s.app.Preferences().BoolWithFallback(KeyEmbedCover, DefaultEmbedCover)
}

// SetEmbedCover sets whether the thumbnail is embedded as cover art
func (s *Settings) SetEmbedCover(embed bool) {
	s.app.Preferences().SetBool(KeyEmbedCover, embed)
}

// GetLogFile returns the log file path, empty to disable
func (s *Settings) GetLogFile() string {
	return s.app.Preferences().StringWithFallback(KeyLogFile, DefaultLogFile)
}

// SetLogFile sets the log file path
func (s *Settings) SetLogFile(path string) {
	s.app.Preferences().SetString(KeyLogFile, path)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"es":     "Español",
	}
}

// GetFormatOptions returns the formats a user can pick
func (s *Settings) GetFormatOptions() []model.Format {
	return []model.Format{model.FormatVideoMp4, model.FormatAudioMp3}
}

// Config returns the current preferences as a Config value
func (s *Settings) Config() Config {
	return Config{
		DownloadDir: s.GetDownloadDirectory(),
		MaxParallel: s.GetMaxParallelDownloads(),
		Format:      s.GetFormat(),
		TagAudio:    s.GetTagAudio(),
		EmbedCover:  s.GetEmbedCover(),
		LogFile:     s.GetLogFile(),
		Language:    s.GetLanguage(),
	}
}

func clampParallel(count int) int {
	if count < MinParallel {
		return MinParallel
	}
	if count > MaxParallel {
		return MaxParallel
	}
	return count
}

func defaultDownloadDir() string {
	dir, err := platform.GetHomeDownloadsDir()
	if err != nil {
		return FallbackDownloadDir
	}
	return dir
}
