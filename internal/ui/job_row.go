package ui

import (
	"fmt"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/downloader-lite/internal/model"
)

// JobRow renders one job: title and URL on the left, status, percent and a
// progress bar on the right.
type JobRow struct {
	widget.BaseWidget

	job          model.Job
	localization *Localization

	titleLabel   *widget.Label
	urlLabel     *widget.Label
	statusLabel  *widget.Label
	percentLabel *widget.Label
	progressBar  *widget.ProgressBar
	revealBtn    *widget.Button
	openBtn      *widget.Button

	onReveal func(filePath string)
	onOpen   func(filePath string)

	content fyne.CanvasObject
}

// NewJobRow creates an empty row; SetJob fills it in
func NewJobRow(localization *Localization) *JobRow {
	r := &JobRow{localization: localization}
	r.ExtendBaseWidget(r)
	r.createUI()
	return r
}

// SetOnReveal sets the handler for the reveal button
func (r *JobRow) SetOnReveal(onReveal func(filePath string)) {
	r.onReveal = onReveal
}

// SetOnOpen sets the handler for the open button
func (r *JobRow) SetOnOpen(onOpen func(filePath string)) {
	r.onOpen = onOpen
}

// SetJob shows the given job in the row
func (r *JobRow) SetJob(job model.Job) {
	r.job = job
	r.updateFromJob()
}

func (r *JobRow) createUI() {
	r.titleLabel = widget.NewLabel("")
	r.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	r.titleLabel.Truncation = fyne.TextTruncateEllipsis

	r.urlLabel = widget.NewLabel("")
	r.urlLabel.Truncation = fyne.TextTruncateEllipsis
	r.urlLabel.TextStyle = fyne.TextStyle{Italic: true}

	r.statusLabel = widget.NewLabel("")
	r.statusLabel.Alignment = fyne.TextAlignTrailing
	r.percentLabel = widget.NewLabel("")
	r.percentLabel.Alignment = fyne.TextAlignTrailing
	r.percentLabel.TextStyle = fyne.TextStyle{Monospace: true}

	r.progressBar = widget.NewProgressBar()
	r.progressBar.Max = 100
	r.progressBar.TextFormatter = func() string { return "" }

	r.revealBtn = widget.NewButton(r.localization.GetText(KeyReveal), func() {
		if r.onReveal != nil && r.job.OutputPath != "" {
			r.onReveal(r.job.OutputPath)
		}
	})
	r.revealBtn.Importance = widget.LowImportance
	r.revealBtn.Hide()

	r.openBtn = widget.NewButton(r.localization.GetText(KeyOpen), func() {
		if r.onOpen != nil && r.job.OutputPath != "" {
			r.onOpen(r.job.OutputPath)
		}
	})
	r.openBtn.Importance = widget.LowImportance
	r.openBtn.Hide()

	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	left := container.NewVBox(r.titleLabel, r.urlLabel)
	right := container.NewHBox(
		fixedWidth(StatusLabelWidth, r.statusLabel),
		container.NewVBox(
			fixedWidth(ProgressBarWidth, r.progressBar),
			fixedWidth(PercentLabelWidth, r.percentLabel),
		),
		container.NewVBox(r.openBtn, r.revealBtn),
	)
	r.content = container.NewVBox(
		container.NewBorder(nil, nil, nil, right, left),
		widget.NewSeparator(),
	)
}

func (r *JobRow) updateFromJob() {
	job := r.job

	r.titleLabel.SetText(cleanText(job.GetDisplayTitle()))
	r.urlLabel.SetText(cleanText(job.URL))

	r.statusLabel.Importance = statusImportance(job.Status)
	r.statusLabel.SetText(statusText(job))

	r.percentLabel.SetText(fmt.Sprintf(ProgressLabelFormat, job.Percent))
	r.progressBar.SetValue(float64(job.Percent))

	if job.Status == model.StatusCompleted && job.OutputPath != "" {
		r.openBtn.Show()
		r.revealBtn.Show()
	} else {
		r.openBtn.Hide()
		r.revealBtn.Hide()
	}
}

// CreateRenderer creates the widget renderer
func (r *JobRow) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(r.content)
}

// MinSize keeps rows readable even when the list is narrow
func (r *JobRow) MinSize() fyne.Size {
	size := r.BaseWidget.MinSize()
	return fyne.NewSize(fyne.Max(size.Width, RowMinWidth), fyne.Max(size.Height, RowMinHeight))
}

func statusText(job model.Job) string {
	switch job.Status {
	case model.StatusPending:
		return IconPending + " " + job.Status.String()
	case model.StatusStarted, model.StatusDownloading:
		return IconPlay + " " + job.Status.String()
	case model.StatusCompleted:
		return IconDone + " " + job.Status.String()
	case model.StatusError:
		if job.Error != "" {
			return IconError + " " + job.Error
		}
		return IconError + " " + job.Status.String()
	case model.StatusCancelled:
		return IconCancelled + " " + job.Status.String()
	default:
		return job.Status.String()
	}
}

func statusImportance(status model.JobStatus) widget.Importance {
	switch status {
	case model.StatusCompleted:
		return widget.SuccessImportance
	case model.StatusError:
		return widget.DangerImportance
	case model.StatusDownloading, model.StatusStarted:
		return widget.HighImportance
	case model.StatusCancelled:
		return widget.WarningImportance
	default:
		return widget.MediumImportance
	}
}

// cleanText flattens control characters so titles stay on one line
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(s)
}
