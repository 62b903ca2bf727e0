package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/downloader-lite/internal/audio"
	"github.com/ytget/downloader-lite/internal/config"
	"github.com/ytget/downloader-lite/internal/download"
	"github.com/ytget/downloader-lite/internal/platform"
	"github.com/ytget/downloader-lite/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.downloader-lite"
	AppName = "YT Downloader Lite"

	WindowWidth  = 800
	WindowHeight = 600
)

func main() {
	fmt.Printf("%s v%s starting...\n", AppName, version)

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewLiteTheme())

	settings := config.NewSettings(myApp)

	if logFile := settings.GetLogFile(); logFile != "" {
		if !filepath.IsAbs(logFile) {
			logFile = filepath.Join(myApp.Storage().RootURI().Path(), logFile)
		}
		closer, err := platform.SetupLogFile(logFile, os.Stderr)
		if err != nil {
			log.Printf("Failed to open log file: %v", err)
		} else {
			defer closer.Close()
		}
	}

	downloadsDir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadsDir); err != nil {
		log.Printf("Failed to ensure downloads dir: %v", err)
	}

	manager := download.NewManager(platform.NewYouTubeProvider(), download.Options{
		MaxConcurrent: settings.GetMaxParallelDownloads(),
		Destination:   downloadsDir,
		PostProcessor: audio.NewFinisher(audio.Options{
			Tag:        settings.GetTagAudio(),
			EmbedCover: settings.GetEmbedCover(),
		}, platform.NewHTTPClient()),
	})

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	rootUI := ui.NewRootUI(myWindow, manager, settings)
	manager.SetEventHandler(rootUI.HandleEvent)

	myWindow.ShowAndRun()
}
