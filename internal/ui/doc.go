package ui

// Package ui contains the Fyne desktop front end. RootUI renders the jobs of a
// download.Queue, applies queue events on the Fyne thread and sends the user's
// commands back to the queue. All UI strings are localized via Localization.
