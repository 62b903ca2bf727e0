package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ytget/downloader-lite/internal/audio"
	"github.com/ytget/downloader-lite/internal/config"
	"github.com/ytget/downloader-lite/internal/download"
	"github.com/ytget/downloader-lite/internal/model"
	"github.com/ytget/downloader-lite/internal/platform"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		urlsFlag        = flag.String("url", "", "Video or playlist URL(s), comma-separated")
		outputFlag      = flag.String("output", "", "Output directory (overrides config)")
		formatFlag      = flag.String("format", "", "mp4 or mp3 (overrides config)")
		concurrencyFlag = flag.Int("concurrency", 0, "Maximum parallel downloads, 1-10 (overrides config)")
		configFlag      = flag.String("config", "", "Path to config file (default: user config dir)")
		verboseFlag     = flag.Bool("verbose", false, "Print per-job progress")
	)
	flag.Parse()

	urls := splitURLs(*urlsFlag, flag.Args())
	if len(urls) == 0 {
		fmt.Println("YT Downloader Lite - download YouTube videos and playlists")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  yt-downloader -url <URL>[,<URL>...] [options]")
		fmt.Println("  yt-downloader [options] <URL>...")
		fmt.Println()
		fmt.Println("For interactive mode, use: yt-downloader-tui")
		fmt.Println()
		flag.PrintDefaults()
		return 1
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	if *outputFlag != "" {
		cfg.DownloadDir = *outputFlag
	}
	if *formatFlag != "" {
		f, err := model.ParseFormat(*formatFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		cfg.Format = f
	}
	if *concurrencyFlag > 0 {
		cfg.MaxParallel = *concurrencyFlag
	}
	cfg.Normalize()

	if cfg.LogFile != "" {
		closer, err := platform.SetupLogFile(cfg.LogFile, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		} else {
			defer closer.Close()
		}
	}

	if err := platform.CreateDirectoryIfNotExists(cfg.DownloadDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", cfg.DownloadDir, err)
		return 1
	}

	printer := newPrinter(*verboseFlag)
	manager := download.NewManager(platform.NewYouTubeProvider(), download.Options{
		MaxConcurrent: cfg.MaxParallel,
		Destination:   cfg.DownloadDir,
		PostProcessor: audio.NewFinisher(audio.Options{Tag: cfg.TagAudio, EmbedCover: cfg.EmbedCover}, platform.NewHTTPClient()),
		OnEvent:       printer.handle,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupted := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
		manager.CancelAll()
		close(interrupted)
	}()

	fmt.Println("YT Downloader Lite")
	fmt.Println(strings.Repeat("━", 40))
	fmt.Printf("Saving %s to %s, %d at a time\n\n", strings.ToUpper(cfg.Format.String()), cfg.DownloadDir, manager.MaxConcurrent())

	for _, u := range urls {
		if _, err := manager.AddURL(ctx, u, cfg.Format); err != nil {
			if ctx.Err() != nil {
				return 130
			}
			fmt.Fprintf(os.Stderr, "❌ %s: %v\n", u, err)
		}
	}

	if err := manager.Start(); err != nil {
		if errors.Is(err, download.ErrEmptyQueue) {
			fmt.Fprintln(os.Stderr, "Nothing to download.")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}

	select {
	case <-printer.done:
	case <-interrupted:
		if err := manager.Close(true); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing: %v\n", err)
		}
		fmt.Println("Download cancelled.")
		return 130
	}

	stats := manager.Stats()
	fmt.Println()
	fmt.Println(strings.Repeat("━", 40))
	fmt.Printf("✨ Complete! %d downloaded, %d failed\n", stats.Completed, stats.Failed)
	if stats.Failed > 0 {
		return 1
	}
	return 0
}

// splitURLs merges the -url flag and positional arguments
func splitURLs(flagValue string, args []string) []string {
	var urls []string
	for _, part := range append(strings.Split(flagValue, ","), args...) {
		if u := strings.TrimSpace(part); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// loadConfig reads path, or the settings file shared with the TUI when path
// is empty. A missing file yields the defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		defaultPath, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: no user config directory, using defaults: %v\n", err)
			return config.DefaultConfig(), nil
		}
		path = defaultPath
	}
	return config.Load(path)
}
