package main

import (
	"path/filepath"
	"testing"

	"github.com/ytget/downloader-lite/internal/config"
	"github.com/ytget/downloader-lite/internal/model"
)

func TestLoadConfig_DefaultPathSharedWithTUI(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("AppData", filepath.Join(home, "AppData"))

	path, err := config.DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath failed: %v", err)
	}

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("Expected defaults for a missing file, got %v", err)
	}
	if cfg.Format != config.DefaultFormat || cfg.MaxParallel != config.DefaultMaxParallel {
		t.Errorf("Expected defaults, got %+v", cfg)
	}

	saved := config.DefaultConfig()
	saved.DownloadDir = filepath.Join(home, "Videos")
	saved.Format = model.FormatAudioMp3
	if err := saved.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cfg, err = loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.DownloadDir != saved.DownloadDir || cfg.Format != model.FormatAudioMp3 {
		t.Errorf("Expected saved settings %s/%s, got %s/%s", saved.DownloadDir, saved.Format, cfg.DownloadDir, cfg.Format)
	}
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	saved := config.DefaultConfig()
	saved.MaxParallel = 5
	if err := saved.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.MaxParallel != 5 {
		t.Errorf("Expected max parallel 5, got %d", cfg.MaxParallel)
	}
}
