package config

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/ytget/downloader-lite/internal/model"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestDownloadDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	dir := settings.GetDownloadDirectory()
	if dir == "" {
		t.Error("Download directory should not be empty")
	}

	customDir := "/custom/downloads"
	settings.SetDownloadDirectory(customDir)

	retrievedDir := settings.GetDownloadDirectory()
	if retrievedDir != customDir {
		t.Errorf("Expected download directory %s, got %s", customDir, retrievedDir)
	}
}

func TestMaxParallelDownloads(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	maxParallel := settings.GetMaxParallelDownloads()
	if maxParallel != DefaultMaxParallel {
		t.Errorf("Expected default max parallel %d, got %d", DefaultMaxParallel, maxParallel)
	}

	tests := []struct {
		name  string
		value int
		want  int
	}{
		{"in range", 5, 5},
		{"clamped to minimum", 0, MinParallel},
		{"negative", -3, MinParallel},
		{"clamped to maximum", 15, MaxParallel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings.SetMaxParallelDownloads(tt.value)
			if got := settings.GetMaxParallelDownloads(); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if f := settings.GetFormat(); f != DefaultFormat {
		t.Errorf("Expected default format %s, got %s", DefaultFormat, f)
	}

	settings.SetFormat(model.FormatAudioMp3)
	if f := settings.GetFormat(); f != model.FormatAudioMp3 {
		t.Errorf("Expected format mp3, got %s", f)
	}

	// Invalid values fall back to the default
	settings.SetFormat(model.Format("flac"))
	if f := settings.GetFormat(); f != DefaultFormat {
		t.Errorf("Expected fallback to %s, got %s", DefaultFormat, f)
	}

	app.Preferences().SetString(KeyFormat, "garbage")
	if f := settings.GetFormat(); f != DefaultFormat {
		t.Errorf("Expected fallback to %s for stored garbage, got %s", DefaultFormat, f)
	}
}

func TestAudioOptions(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if !settings.GetTagAudio() {
		t.Error("Tagging should be enabled by default")
	}
	if !settings.GetEmbedCover() {
		t.Error("Cover embedding should be enabled by default")
	}

	settings.SetTagAudio(false)
	settings.SetEmbedCover(false)

	if settings.GetTagAudio() {
		t.Error("Tagging should be disabled after SetTagAudio(false)")
	}
	if settings.GetEmbedCover() {
		t.Error("Cover embedding should be disabled after SetEmbedCover(false)")
	}
}

func TestLogFile(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if got := settings.GetLogFile(); got != DefaultLogFile {
		t.Errorf("Expected default log file %s, got %s", DefaultLogFile, got)
	}

	settings.SetLogFile("/var/log/yt.log")
	if got := settings.GetLogFile(); got != "/var/log/yt.log" {
		t.Errorf("Expected /var/log/yt.log, got %s", got)
	}
}

func TestLanguage(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if lang := settings.GetLanguage(); lang != DefaultLanguage {
		t.Errorf("Expected default language %s, got %s", DefaultLanguage, lang)
	}

	settings.SetLanguage("es")
	if lang := settings.GetLanguage(); lang != "es" {
		t.Errorf("Expected language es, got %s", lang)
	}

	options := settings.GetLanguageOptions()
	for _, key := range []string{"system", "en", "es"} {
		if _, ok := options[key]; !ok {
			t.Errorf("Language option %s should be available", key)
		}
	}
}

func TestConfigSnapshot(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	settings.SetDownloadDirectory("/music")
	settings.SetMaxParallelDownloads(7)
	settings.SetFormat(model.FormatAudioMp3)
	settings.SetEmbedCover(false)

	cfg := settings.Config()
	if cfg.DownloadDir != "/music" || cfg.MaxParallel != 7 || cfg.Format != model.FormatAudioMp3 {
		t.Errorf("Unexpected snapshot: %+v", cfg)
	}
	if !cfg.TagAudio || cfg.EmbedCover {
		t.Errorf("Unexpected audio options in snapshot: %+v", cfg)
	}
}
