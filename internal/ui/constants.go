package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings  = "⚙"
	IconPlay      = "▶"
	IconPending   = "⏳"
	IconDone      = "✔"
	IconError     = "❌"
	IconCancelled = "⏹"
	IconFolder    = "📁"
)

// Text fragments
const (
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
)

// Layout sizing (JobRow / lists)
const (
	StatusLabelWidth  float32 = 120
	PercentLabelWidth float32 = 48
	ProgressBarWidth  float32 = 140

	RowMinWidth  float32 = 400
	RowMinHeight float32 = 56

	WindowMinWidth  float32 = 720
	WindowMinHeight float32 = 480
)

// Notification behavior
const (
	NoticeAutoHide = 4 * time.Second
)
