package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ytget/downloader-lite/internal/model"
)

// AppDirName is the directory created under the user config dir
const AppDirName = "yt-downloader-lite"

// Config is the file representation of the settings, used by the terminal
// front ends that run without a Fyne app.
type Config struct {
	DownloadDir string       `json:"download_directory"`
	MaxParallel int          `json:"max_parallel_downloads"`
	Format      model.Format `json:"format"`
	TagAudio    bool         `json:"tag_audio"`
	EmbedCover  bool         `json:"embed_cover"`
	LogFile     string       `json:"log_file"`
	Language    string       `json:"app_language"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		DownloadDir: defaultDownloadDir(),
		MaxParallel: DefaultMaxParallel,
		Format:      DefaultFormat,
		TagAudio:    DefaultTagAudio,
		EmbedCover:  DefaultEmbedCover,
		LogFile:     DefaultLogFile,
		Language:    DefaultLanguage,
	}
}

// DefaultConfigPath returns <user config dir>/yt-downloader-lite/settings.json
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, AppDirName, "settings.json"), nil
}

// Load reads a config from a JSON file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes the config to a JSON file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Normalize replaces invalid values with defaults and clamps parallelism
func (c *Config) Normalize() {
	if c.MaxParallel <= 0 {
		c.MaxParallel = DefaultMaxParallel
	}
	c.MaxParallel = clampParallel(c.MaxParallel)
	if f, err := model.ParseFormat(string(c.Format)); err == nil {
		c.Format = f
	} else {
		c.Format = DefaultFormat
	}
	if c.DownloadDir == "" {
		c.DownloadDir = defaultDownloadDir()
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
}
