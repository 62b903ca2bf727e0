package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/ytget/downloader-lite/internal/download"
	"github.com/ytget/downloader-lite/internal/model"
)

// progressStep is the per-job percent granularity of verbose output
const progressStep = 10

// printer writes queue events to stdout. done is closed on AllComplete.
type printer struct {
	verbose bool
	done    chan struct{}
	once    sync.Once

	titles   map[string]string
	reported map[string]int
}

func newPrinter(verbose bool) *printer {
	return &printer{
		verbose:  verbose,
		done:     make(chan struct{}),
		titles:   make(map[string]string),
		reported: make(map[string]int),
	}
}

// handle is called by the queue's single event drainer, never concurrently
func (p *printer) handle(ev download.Event) {
	switch ev.Kind {
	case download.EventJobAdded:
		title := ev.Title
		if title == "" || title == model.TitleUnavailable {
			title = ev.URL
		}
		p.titles[ev.JobID] = title
		fmt.Printf("＋ %s\n", title)

	case download.EventJobStatusChanged:
		switch ev.Status {
		case model.StatusDownloading:
			if p.verbose {
				fmt.Printf("↓ %s\n", p.titles[ev.JobID])
			}
		case model.StatusCompleted:
			fmt.Printf("✅ %s\n", p.titles[ev.JobID])
		case model.StatusCancelled:
			fmt.Printf("⏹ %s\n", p.titles[ev.JobID])
		}

	case download.EventJobProgress:
		if !p.verbose {
			return
		}
		step := ev.Percent / progressStep * progressStep
		if step > p.reported[ev.JobID] {
			p.reported[ev.JobID] = step
			fmt.Printf("   %3d%% %s\n", step, p.titles[ev.JobID])
		}

	case download.EventJobError:
		fmt.Fprintf(os.Stderr, "❌ %s: %v\n", p.titles[ev.JobID], ev.Err)

	case download.EventAllComplete:
		p.once.Do(func() { close(p.done) })
	}
}
