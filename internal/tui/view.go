package tui

import (
	"fmt"
	"strings"

	"github.com/ytget/downloader-lite/internal/model"
)

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("YT Downloader Lite"))
	b.WriteString("\n")

	b.WriteString(m.viewInput())
	b.WriteString("\n")
	b.WriteString(m.viewJobs())
	b.WriteString("\n")
	b.WriteString(m.viewSummary())
	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	if m.confirm != ConfirmNone {
		b.WriteString("\n")
		b.WriteString(confirmStyle.Render(m.confirmText()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))
	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	label := "Add video or playlist URL:"
	if m.mode == ModeDestination {
		label = "Download folder:"
	}
	b.WriteString(subtitleStyle.Render(label))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	video, audio := "( )", "( )"
	if m.format == model.FormatAudioMp3 {
		audio = "(•)"
	} else {
		video = "(•)"
	}
	dest := m.queue.Destination()
	if dest == "" {
		dest = warningStyle.Render("not set")
	}
	b.WriteString(fmt.Sprintf("Format: %s MP4  %s MP3    Folder: %s\n", video, audio, dest))

	if m.resolving > 0 {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(activeStyle.Render("Resolving titles..."))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewJobs() string {
	if len(m.order) == 0 {
		return dimStyle.Render("No downloads yet") + "\n"
	}

	var b strings.Builder
	for _, id := range m.order {
		job := m.jobs[id]
		status := statusStyle(job.Status)
		b.WriteString(statusColumn.Inherit(status).Render(job.Status.String()))
		b.WriteString(m.rowBar.ViewAs(float64(job.Percent) / 100))
		b.WriteString(fmt.Sprintf(" %3d%%  ", job.Percent))
		b.WriteString(truncate(job.GetDisplayTitle(), m.titleWidth()))
		if job.Status == model.StatusError && job.Error != "" {
			b.WriteString(errorStyle.Render("  " + job.Error))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewSummary() string {
	stats := m.queue.Stats()
	line := fmt.Sprintf("%d active · %d waiting · %d done · %d failed · %d cancelled",
		stats.Active, stats.Pending, stats.Completed, stats.Failed, stats.Cancelled)
	return m.progress.View() + "\n" + dimStyle.Render(line) + "\n"
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, entry := range m.logs {
		style := dimStyle
		prefix := "›"
		switch entry.Level {
		case LevelError:
			style = errorStyle
			prefix = "✗"
		case LevelWarning:
			style = warningStyle
			prefix = "!"
		case LevelSuccess:
			style = successStyle
			prefix = "✓"
		}
		b.WriteString(style.Render(prefix + " " + entry.Message))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) confirmText() string {
	switch m.confirm {
	case ConfirmQuit:
		return "Downloads are running. Cancel them and quit? (y/n)"
	case ConfirmClear:
		return "Downloads are running. Cancel them and clear the list? (y/n)"
	}
	return ""
}

func (m Model) getHelpText() string {
	if m.closing {
		return "closing..."
	}
	if m.mode == ModeDestination {
		return "enter: save folder • esc: back"
	}
	return "enter: add • tab: mp4/mp3 • ctrl+o: folder • ctrl+s: start • ctrl+x: cancel • ctrl+l: clear • esc: quit"
}

func (m Model) titleWidth() int {
	if m.width <= 0 {
		return 60
	}
	return max(m.width-45, 10)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
