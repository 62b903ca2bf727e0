package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/downloader-lite/internal/config"
	"github.com/ytget/downloader-lite/internal/download"
	"github.com/ytget/downloader-lite/internal/model"
	"github.com/ytget/downloader-lite/internal/platform"
)

// RootUI represents the main window. Queue events arrive on worker
// goroutines and are applied on the Fyne thread; the fields below the
// widgets are only touched there.
type RootUI struct {
	window       fyne.Window
	queue        download.Queue
	settings     *config.Settings
	localization *Localization

	urlEntry    *widget.Entry
	addBtn      *widget.Button
	formatRadio *widget.RadioGroup
	destLabel   *widget.Label
	browseBtn   *widget.Button
	startBtn    *widget.Button
	cancelBtn   *widget.Button
	clearBtn    *widget.Button
	jobList     *widget.List
	infoLabel   *widget.Label
	globalBar   *widget.ProgressBar

	order []string
	jobs  map[string]model.Job
}

// NewRootUI builds the window content for queue. The caller subscribes
// HandleEvent to the queue's events.
func NewRootUI(window fyne.Window, queue download.Queue, settings *config.Settings) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		queue:        queue,
		settings:     settings,
		localization: localization,
		jobs:         make(map[string]model.Job),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()
	window.SetCloseIntercept(ui.onCloseRequest)

	// Jobs added before the window existed
	for _, job := range queue.Jobs() {
		ui.order = append(ui.order, job.ID)
		ui.jobs[job.ID] = job
	}
	ui.refresh()
	return ui
}

// HandleEvent is the download.EventHandler of the window
func (ui *RootUI) HandleEvent(ev download.Event) {
	fyne.Do(func() {
		ui.applyEvent(ev)
	})
}

func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onAddClick()
	}
	ui.addBtn = widget.NewButton(ui.localization.GetText(KeyAdd), ui.onAddClick)
	ui.addBtn.Importance = widget.HighImportance

	ui.formatRadio = widget.NewRadioGroup(ui.formatOptions(), func(selected string) {
		ui.settings.SetFormat(ui.formatFromLabel(selected))
	})
	ui.formatRadio.Horizontal = true
	ui.formatRadio.Required = true
	ui.formatRadio.SetSelected(ui.formatLabel(ui.settings.GetFormat()))

	ui.destLabel = widget.NewLabel("")
	ui.destLabel.Truncation = fyne.TextTruncateEllipsis
	ui.browseBtn = widget.NewButton(IconFolder+" "+ui.localization.GetText(KeyBrowse), ui.onBrowseClick)

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	ui.startBtn = widget.NewButton(ui.localization.GetText(KeyStart), ui.onStartClick)
	ui.startBtn.Importance = widget.HighImportance
	ui.cancelBtn = widget.NewButton(ui.localization.GetText(KeyCancelAll), ui.onCancelClick)
	ui.clearBtn = widget.NewButton(ui.localization.GetText(KeyClear), ui.onClearClick)

	ui.jobList = widget.NewList(
		func() int { return len(ui.order) },
		func() fyne.CanvasObject {
			row := NewJobRow(ui.localization)
			row.SetOnReveal(ui.onRevealFile)
			row.SetOnOpen(ui.onOpenFile)
			return row
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(ui.order) {
				return
			}
			obj.(*JobRow).SetJob(ui.jobs[ui.order[id]])
		},
	)

	ui.infoLabel = widget.NewLabel("")
	ui.infoLabel.Truncation = fyne.TextTruncateEllipsis
	ui.globalBar = widget.NewProgressBar()
	ui.globalBar.Max = 100

	urlRow := container.NewBorder(nil, nil, settingsBtn, ui.addBtn, ui.urlEntry)
	destRow := container.NewBorder(nil, nil,
		widget.NewLabel(ui.localization.GetText(KeyDestination)+":"),
		container.NewHBox(ui.formatRadio, ui.browseBtn),
		ui.destLabel,
	)
	controls := container.NewHBox(ui.startBtn, ui.cancelBtn, ui.clearBtn)
	if fyne.CurrentDevice().IsMobile() {
		controls = container.NewGridWithColumns(3, ui.startBtn, ui.cancelBtn, ui.clearBtn)
	}

	top := container.NewVBox(urlRow, destRow, controls, widget.NewSeparator())
	bottom := container.NewVBox(widget.NewSeparator(), ui.infoLabel, ui.globalBar)

	ui.window.SetContent(container.NewBorder(top, bottom, nil, nil, ui.jobList))
}

func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		item := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		item.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, item)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	))
}

func (ui *RootUI) onLanguageChange(langCode string) {
	format := ui.formatFromLabel(ui.formatRadio.Selected)

	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)

	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.browseBtn.SetText(IconFolder + " " + ui.localization.GetText(KeyBrowse))
	ui.startBtn.SetText(ui.localization.GetText(KeyStart))
	ui.cancelBtn.SetText(ui.localization.GetText(KeyCancelAll))
	ui.clearBtn.SetText(ui.localization.GetText(KeyClear))
	ui.formatRadio.Options = ui.formatOptions()
	ui.formatRadio.SetSelected(ui.formatLabel(format))

	ui.createMenu()
	ui.refresh()
}

func (ui *RootUI) formatOptions() []string {
	return []string{ui.localization.GetText(KeyVideo), ui.localization.GetText(KeyAudio)}
}

func (ui *RootUI) formatLabel(f model.Format) string {
	if f == model.FormatAudioMp3 {
		return ui.localization.GetText(KeyAudio)
	}
	return ui.localization.GetText(KeyVideo)
}

func (ui *RootUI) formatFromLabel(label string) model.Format {
	if label == ui.localization.GetText(KeyAudio) {
		return model.FormatAudioMp3
	}
	return model.FormatVideoMp4
}

func (ui *RootUI) onAddClick() {
	rawURL := cleanText(ui.urlEntry.Text)
	if rawURL == "" {
		ui.showInfo(ui.localization.GetText(KeyPleaseEnterURL))
		return
	}
	format := ui.formatFromLabel(ui.formatRadio.Selected)

	ui.addBtn.Disable()
	ui.showInfo(fmt.Sprintf(ui.localization.GetText(KeyResolving), rawURL))

	// Title and playlist lookups hit the network
	go func() {
		ids, err := ui.queue.AddURL(context.Background(), rawURL, format)
		fyne.Do(func() {
			ui.addBtn.Enable()
			if err != nil {
				ui.showAddError(err)
				return
			}
			ui.urlEntry.SetText("")
			ui.showInfo(fmt.Sprintf(ui.localization.GetText(KeyJobsAdded), len(ids)))
		})
	}()
}

func (ui *RootUI) showAddError(err error) {
	var msg string
	switch {
	case errors.Is(err, download.ErrInvalidURL):
		msg = ui.localization.GetText(KeyInvalidURL)
	case errors.Is(err, download.ErrPlaylist):
		msg = ui.localization.GetText(KeyPlaylistFailed)
	default:
		msg = err.Error()
	}
	ui.showInfo(msg)
	dialog.ShowError(errors.New(msg), ui.window)
}

func (ui *RootUI) onBrowseClick() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, ui.window)
			return
		}
		if uri == nil {
			return
		}
		ui.setDestination(uri.Path())
	}, ui.window)
}

func (ui *RootUI) setDestination(path string) {
	ui.queue.SetDestination(path)
	ui.settings.SetDownloadDirectory(path)
	ui.refresh()
}

func (ui *RootUI) onStartClick() {
	err := ui.queue.Start()
	switch {
	case err == nil:
		ui.refresh()
	case errors.Is(err, download.ErrEmptyQueue):
		dialog.ShowInformation(ui.localization.GetText(KeyStart), ui.localization.GetText(KeyEmptyQueue), ui.window)
	case errors.Is(err, download.ErrNoDestination):
		dialog.ShowInformation(ui.localization.GetText(KeyStart), ui.localization.GetText(KeySelectDestination), ui.window)
	default:
		dialog.ShowError(err, ui.window)
	}
}

func (ui *RootUI) onCancelClick() {
	ui.cancelBtn.Disable()
	ui.showInfo(ui.localization.GetText(KeyCancelling))
	go func() {
		ui.queue.CancelAll()
		fyne.Do(ui.refresh)
	}()
}

func (ui *RootUI) onClearClick() {
	err := ui.queue.ClearAll(false)
	if err == nil {
		return
	}
	if !errors.Is(err, download.ErrDownloadsInProgress) {
		dialog.ShowError(err, ui.window)
		return
	}

	dialog.ShowConfirm(
		ui.localization.GetText(KeyDownloadsRunning),
		ui.localization.GetText(KeyConfirmClear),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			ui.showInfo(ui.localization.GetText(KeyCancelling))
			go func() {
				if err := ui.queue.ClearAll(true); err != nil {
					log.Printf("Failed to clear the list: %v", err)
				}
			}()
		},
		ui.window,
	)
}

func (ui *RootUI) onCloseRequest() {
	if ui.queue.ActiveCount() == 0 {
		if err := ui.queue.Close(false); err != nil {
			log.Printf("Failed to close queue: %v", err)
		}
		ui.window.Close()
		return
	}

	dialog.ShowConfirm(
		ui.localization.GetText(KeyDownloadsRunning),
		ui.localization.GetText(KeyConfirmExit),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			ui.showInfo(ui.localization.GetText(KeyCancelling))
			go func() {
				if err := ui.queue.Close(true); err != nil {
					log.Printf("Failed to close queue: %v", err)
				}
				fyne.Do(ui.window.Close)
			}()
		},
		ui.window,
	)
}

func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window, func() {
		dest := ui.settings.GetDownloadDirectory()
		if dest != ui.queue.Destination() {
			ui.queue.SetDestination(dest)
		}
		if lang := ui.settings.GetLanguage(); lang != ui.localization.GetCurrentLanguage() {
			ui.onLanguageChange(lang)
		}
		ui.formatRadio.SetSelected(ui.formatLabel(ui.settings.GetFormat()))
		ui.refresh()
	}).Show()
}

func (ui *RootUI) onRevealFile(filePath string) {
	if err := platform.OpenFileInManager(filePath); err != nil {
		log.Printf("Failed to reveal %s: %v", filePath, err)
		dialog.ShowError(err, ui.window)
	}
}

func (ui *RootUI) onOpenFile(filePath string) {
	if err := platform.OpenFileWithDefaultApp(filePath); err != nil {
		log.Printf("Failed to open %s: %v", filePath, err)
		dialog.ShowError(err, ui.window)
	}
}

// applyEvent updates the rendered state. Runs on the Fyne thread.
func (ui *RootUI) applyEvent(ev download.Event) {
	switch ev.Kind {
	case download.EventJobAdded:
		if _, ok := ui.jobs[ev.JobID]; !ok {
			ui.order = append(ui.order, ev.JobID)
		}
		ui.jobs[ev.JobID] = ui.lookupJob(ev)

	case download.EventJobStatusChanged:
		job, ok := ui.jobs[ev.JobID]
		if !ok {
			return
		}
		if ev.Status.IsFinished() {
			// pick up OutputPath and the error message
			job = ui.lookupJob(ev)
		}
		job.Status = ev.Status
		ui.jobs[ev.JobID] = job

	case download.EventJobProgress:
		job, ok := ui.jobs[ev.JobID]
		if !ok {
			return
		}
		job.Percent = ev.Percent
		ui.jobs[ev.JobID] = job

	case download.EventGlobalProgress:
		ui.globalBar.SetValue(float64(ev.Percent))

	case download.EventJobError:
		title := ev.Title
		if title == "" {
			title = ev.URL
		}
		msg := ev.URL
		if job, ok := ui.queue.Job(ev.JobID); ok && job.Error != "" {
			msg = job.Error
		}
		ui.showInfo(fmt.Sprintf("%s: %s: %s", ui.localization.GetText(KeyError), cleanText(title), msg))

	case download.EventAllComplete:
		ui.globalBar.SetValue(100)
		ui.showAllComplete(ev.Completed, ev.Total)

	case download.EventQueueCleared:
		ui.order = nil
		ui.jobs = make(map[string]model.Job)
		ui.globalBar.SetValue(0)
		ui.showInfo("")
	}

	ui.refresh()
}

// lookupJob returns the manager's copy of the job, falling back to the event fields
func (ui *RootUI) lookupJob(ev download.Event) model.Job {
	if job, ok := ui.queue.Job(ev.JobID); ok {
		return job
	}
	job := ui.jobs[ev.JobID]
	job.ID = ev.JobID
	if ev.URL != "" {
		job.URL = ev.URL
	}
	if ev.Title != "" {
		job.Title = ev.Title
	}
	if ev.Status != "" {
		job.Status = ev.Status
	}
	return job
}

// showAllComplete reports the finished batch and clears the list once the
// user dismisses the dialog.
func (ui *RootUI) showAllComplete(completed, total int) {
	d := dialog.NewInformation(
		ui.localization.GetText(KeyAllComplete),
		fmt.Sprintf(ui.localization.GetText(KeyAllCompleteMessage), completed, total),
		ui.window,
	)
	d.SetOnClosed(func() {
		go func() {
			if err := ui.queue.ClearAll(false); err != nil && !errors.Is(err, download.ErrDownloadsInProgress) {
				log.Printf("Failed to clear the list: %v", err)
			}
		}()
	})
	d.Show()
}

func (ui *RootUI) showInfo(message string) {
	ui.infoLabel.SetText(message)
}

// refresh syncs buttons, the destination label and the list with the queue
func (ui *RootUI) refresh() {
	dest := ui.queue.Destination()
	if dest == "" {
		dest = ui.localization.GetText(KeyNoDestination)
	}
	ui.destLabel.SetText(dest)

	stats := ui.queue.Stats()
	if stats.Pending > 0 {
		ui.startBtn.Enable()
	} else {
		ui.startBtn.Disable()
	}
	if stats.Active > 0 {
		ui.cancelBtn.Enable()
	} else {
		ui.cancelBtn.Disable()
	}
	if len(ui.order) > 0 {
		ui.clearBtn.Enable()
	} else {
		ui.clearBtn.Disable()
	}

	if stats.Active > 0 || stats.Pending > 0 {
		ui.globalBar.TextFormatter = func() string {
			return strings.TrimSpace(fmt.Sprintf(ui.localization.GetText(KeyOverallProgress),
				int(ui.globalBar.Value), stats.Active, stats.Pending))
		}
	} else {
		ui.globalBar.TextFormatter = nil
	}
	ui.globalBar.Refresh()
	ui.jobList.Refresh()
}
