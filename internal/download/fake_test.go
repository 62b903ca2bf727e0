package download

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ytget/downloader-lite/internal/model"
)

// fakeVideo scripts the provider behaviour for one URL
type fakeVideo struct {
	title       string
	resolveErr  error
	variants    []model.StreamVariant
	downloadErr error
	panics      bool
}

// fakeTransfer is a Download call waiting for the test to finish it
type fakeTransfer struct {
	url        string
	onProgress func(transferred, total int64)
	release    chan error
}

type fakeProvider struct {
	mu          sync.Mutex
	videos      map[string]fakeVideo
	playlist    []string
	playlistErr error

	// instant completes downloads on their own instead of waiting for release
	instant bool
	delay   time.Duration

	started   chan *fakeTransfer
	current   int
	maxActive int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		videos:  make(map[string]fakeVideo),
		started: make(chan *fakeTransfer, 256),
	}
}

func defaultVariants() []model.StreamVariant {
	return []model.StreamVariant{
		{ID: 137, Container: "mp4", HasVideo: true},
		{ID: 18, Container: "mp4", HasVideo: true, HasAudio: true},
		{ID: 140, Container: "m4a", HasAudio: true},
	}
}

func (p *fakeProvider) set(url string, v fakeVideo) {
	p.mu.Lock()
	p.videos[url] = v
	p.mu.Unlock()
}

func (p *fakeProvider) video(url string) fakeVideo {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.videos[url]
	if !ok {
		v = fakeVideo{title: "Title " + url}
	}
	if v.variants == nil {
		v.variants = defaultVariants()
	}
	return v
}

func (p *fakeProvider) Resolve(ctx context.Context, url string) (*model.MediaInfo, error) {
	v := p.video(url)
	if v.resolveErr != nil {
		return nil, v.resolveErr
	}
	variants := make([]model.StreamVariant, len(v.variants))
	for i, s := range v.variants {
		s.MediaID = url
		variants[i] = s
	}
	return &model.MediaInfo{ID: url, Title: v.title, Author: "Tester", Variants: variants}, nil
}

func (p *fakeProvider) ExpandPlaylist(ctx context.Context, url string) ([]string, error) {
	if p.playlistErr != nil {
		return nil, p.playlistErr
	}
	return p.playlist, nil
}

func (p *fakeProvider) Download(ctx context.Context, variant model.StreamVariant, destDir string, onProgress func(transferred, total int64)) (string, error) {
	url := variant.MediaID
	v := p.video(url)

	p.mu.Lock()
	p.current++
	if p.current > p.maxActive {
		p.maxActive = p.current
	}
	instant, delay := p.instant, p.delay
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.current--
		p.mu.Unlock()
	}()

	if v.panics {
		panic("boom")
	}
	if v.downloadErr != nil {
		return "", v.downloadErr
	}

	path := filepath.Join(destDir, variant.Container)
	if instant {
		if delay > 0 {
			time.Sleep(delay)
		}
		onProgress(100, 100)
		return path, nil
	}

	t := &fakeTransfer{url: url, onProgress: onProgress, release: make(chan error, 1)}
	p.started <- t
	select {
	case err := <-t.release:
		if err != nil {
			return "", err
		}
		onProgress(100, 100)
		return path, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (p *fakeProvider) peakConcurrency() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxActive
}

func (p *fakeProvider) waitTransfer(t *testing.T) *fakeTransfer {
	t.Helper()
	select {
	case tr := <-p.started:
		return tr
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for a transfer to start")
		return nil
	}
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) handle(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *eventRecorder) byKind(kind EventKind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func (r *eventRecorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type fakePostProcessor struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakePostProcessor) Finish(ctx context.Context, job model.Job, info *model.MediaInfo, path string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, job.ID)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return path + ".mp3", nil
}

var errFake = errors.New("fake failure")

func newTestManager(t *testing.T, p *fakeProvider, maxConcurrent int) (*Manager, *eventRecorder) {
	t.Helper()
	rec := &eventRecorder{}
	m := NewManager(p, Options{
		MaxConcurrent: maxConcurrent,
		Destination:   t.TempDir(),
		OnEvent:       rec.handle,
		Logger:        log.New(io.Discard, "", 0),
	})
	return m, rec
}

func enqueueN(t *testing.T, m *Manager, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id, err := m.Enqueue(context.Background(), "https://youtu.be/v"+string(rune('a'+i)), model.FormatVideoMp4)
		if err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}
