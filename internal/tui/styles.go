package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ytget/downloader-lite/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0033")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	confirmStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FFE66D")).
			Padding(0, 2)

	statusColumn = lipgloss.NewStyle().Width(12)
)

func statusStyle(status model.JobStatus) lipgloss.Style {
	switch status {
	case model.StatusCompleted:
		return successStyle
	case model.StatusError:
		return errorStyle
	case model.StatusCancelled:
		return warningStyle
	case model.StatusStarted, model.StatusDownloading:
		return activeStyle
	default:
		return dimStyle
	}
}
