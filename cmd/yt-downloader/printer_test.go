package main

import (
	"testing"

	"github.com/ytget/downloader-lite/internal/download"
)

func TestSplitURLs(t *testing.T) {
	tests := []struct {
		name string
		flag string
		args []string
		want int
	}{
		{"empty", "", nil, 0},
		{"flag only", "https://youtu.be/a, https://youtu.be/b", nil, 2},
		{"args only", "", []string{"https://youtu.be/a"}, 1},
		{"both with blanks", "https://youtu.be/a,,", []string{" ", "https://youtu.be/b"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitURLs(tt.flag, tt.args); len(got) != tt.want {
				t.Errorf("Expected %d URLs, got %v", tt.want, got)
			}
		})
	}
}

func TestPrinter_DoneOnAllComplete(t *testing.T) {
	p := newPrinter(true)
	p.handle(download.Event{Kind: download.EventJobAdded, JobID: "job-1", URL: "https://youtu.be/a", Title: "unavailable"})
	p.handle(download.Event{Kind: download.EventJobProgress, JobID: "job-1", Percent: 37})

	if p.titles["job-1"] != "https://youtu.be/a" {
		t.Errorf("Expected URL in place of the placeholder title, got %q", p.titles["job-1"])
	}
	if p.reported["job-1"] != 30 {
		t.Errorf("Expected progress reported at 30, got %d", p.reported["job-1"])
	}

	p.handle(download.Event{Kind: download.EventAllComplete, Completed: 1, Total: 1})
	p.handle(download.Event{Kind: download.EventAllComplete, Completed: 1, Total: 1})

	select {
	case <-p.done:
	default:
		t.Error("Expected done to be closed")
	}
}
