package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ytget/downloader-lite/internal/audio"
	"github.com/ytget/downloader-lite/internal/config"
	"github.com/ytget/downloader-lite/internal/download"
	"github.com/ytget/downloader-lite/internal/platform"
	"github.com/ytget/downloader-lite/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configFlag := flag.String("config", "", "Path to config file (default: user config dir)")
	flag.Parse()

	configPath := *configFlag
	if configPath == "" {
		var err error
		if configPath, err = config.DefaultConfigPath(); err != nil {
			return err
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// The terminal belongs to the UI, so logs only go to the file
	log.SetOutput(io.Discard)
	if cfg.LogFile != "" {
		closer, err := platform.SetupLogFile(cfg.LogFile, nil)
		if err != nil {
			return err
		}
		defer closer.Close()
	}

	if err := platform.CreateDirectoryIfNotExists(cfg.DownloadDir); err != nil {
		log.Printf("Failed to create %s: %v", cfg.DownloadDir, err)
	}

	manager := download.NewManager(platform.NewYouTubeProvider(), download.Options{
		MaxConcurrent: cfg.MaxParallel,
		Destination:   cfg.DownloadDir,
		PostProcessor: audio.NewFinisher(audio.Options{Tag: cfg.TagAudio, EmbedCover: cfg.EmbedCover}, platform.NewHTTPClient()),
	})

	return tui.Run(manager, tui.Options{Config: cfg, ConfigPath: configPath}, manager.SetEventHandler)
}
