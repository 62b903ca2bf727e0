package download

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/ytget/downloader-lite/internal/model"
)

func runSingle(t *testing.T, p *fakeProvider, url string, format model.Format, post PostProcessor) (*Manager, *eventRecorder, string) {
	t.Helper()
	rec := &eventRecorder{}
	m := NewManager(p, Options{
		MaxConcurrent: 2,
		Destination:   t.TempDir(),
		PostProcessor: post,
		OnEvent:       rec.handle,
		Logger:        log.New(io.Discard, "", 0),
	})
	id, err := m.Enqueue(context.Background(), url, format)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitFor(t, "queue to drain", func() bool {
		return len(rec.byKind(EventAllComplete)) == 1
	})
	return m, rec, id
}

func TestWorker_Failures(t *testing.T) {
	tests := []struct {
		name    string
		video   fakeVideo
		format  model.Format
		wantErr error
		wantMsg string
	}{
		{
			name:    "resolution error",
			video:   fakeVideo{resolveErr: errFake},
			format:  model.FormatVideoMp4,
			wantErr: ErrResolution,
			wantMsg: "Could not resolve video",
		},
		{
			name:    "no muxed mp4",
			video:   fakeVideo{title: "x", variants: []model.StreamVariant{{ID: 137, Container: "mp4", HasVideo: true}, {ID: 140, Container: "m4a", HasAudio: true}}},
			format:  model.FormatVideoMp4,
			wantErr: ErrNoStreamAvailable,
			wantMsg: "No compatible stream",
		},
		{
			name:    "no audio only",
			video:   fakeVideo{title: "x", variants: []model.StreamVariant{{ID: 18, Container: "mp4", HasVideo: true, HasAudio: true}}},
			format:  model.FormatAudioMp3,
			wantErr: ErrNoStreamAvailable,
			wantMsg: "No compatible stream",
		},
		{
			name:    "transfer error",
			video:   fakeVideo{title: "x", downloadErr: errFake},
			format:  model.FormatVideoMp4,
			wantErr: ErrTransfer,
			wantMsg: "Download failed",
		},
		{
			name:    "provider panic",
			video:   fakeVideo{title: "x", panics: true},
			format:  model.FormatVideoMp4,
			wantMsg: "Unexpected error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newFakeProvider()
			p.set("https://youtu.be/bad", tt.video)
			m, rec, id := runSingle(t, p, "https://youtu.be/bad", tt.format, nil)

			job, _ := m.Job(id)
			if job.Status != model.StatusError {
				t.Fatalf("Expected Error, got %s", job.Status)
			}
			if job.Error != tt.wantMsg {
				t.Errorf("Expected message %q, got %q", tt.wantMsg, job.Error)
			}

			errs := rec.byKind(EventJobError)
			if len(errs) != 1 {
				t.Fatalf("Expected exactly one JobError event, got %d", len(errs))
			}
			var jobErr *JobError
			if !errors.As(errs[0].Err, &jobErr) || jobErr.JobID != id || jobErr.URL != "https://youtu.be/bad" {
				t.Errorf("Expected *JobError for %s, got %v", id, errs[0].Err)
			}
			if tt.wantErr != nil && !errors.Is(errs[0].Err, tt.wantErr) {
				t.Errorf("Expected %v in chain, got %v", tt.wantErr, errs[0].Err)
			}
			done := rec.byKind(EventAllComplete)[0]
			if done.Completed != 1 || done.Total != 1 {
				t.Errorf("Expected failed job to count as finished, got %d/%d", done.Completed, done.Total)
			}
		})
	}
}

func TestWorker_FailureDoesNotAffectSiblings(t *testing.T) {
	p := newFakeProvider()
	p.instant = true
	p.set("https://youtu.be/vb", fakeVideo{title: "bad", downloadErr: errFake})
	m, rec := newTestManager(t, p, 3)
	ids := enqueueN(t, m, 3)

	if err := m.Start(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	waitFor(t, "all complete", func() bool { return len(rec.byKind(EventAllComplete)) == 1 })

	want := []model.JobStatus{model.StatusCompleted, model.StatusError, model.StatusCompleted}
	for i, id := range ids {
		job, _ := m.Job(id)
		if job.Status != want[i] {
			t.Errorf("Job %d: expected %s, got %s", i, want[i], job.Status)
		}
	}
	// (100 + 0 + 100) / 3
	if got := m.GlobalPercent(); got != 66 {
		t.Errorf("Expected global percent 66, got %d", got)
	}
}

func TestWorker_AudioPostProcessing(t *testing.T) {
	p := newFakeProvider()
	p.instant = true
	post := &fakePostProcessor{}
	m, _, id := runSingle(t, p, "https://youtu.be/song", model.FormatAudioMp3, post)

	job, _ := m.Job(id)
	if job.Status != model.StatusCompleted {
		t.Fatalf("Expected Completed, got %s (%s)", job.Status, job.Error)
	}
	if !strings.HasSuffix(job.OutputPath, ".mp3") {
		t.Errorf("Expected post-processed .mp3 path, got %s", job.OutputPath)
	}
	if len(post.calls) != 1 || post.calls[0] != id {
		t.Errorf("Expected one post-processing call for %s, got %v", id, post.calls)
	}
}

func TestWorker_VideoSkipsPostProcessing(t *testing.T) {
	p := newFakeProvider()
	p.instant = true
	post := &fakePostProcessor{}
	m, _, id := runSingle(t, p, "https://youtu.be/clip", model.FormatVideoMp4, post)

	job, _ := m.Job(id)
	if job.Status != model.StatusCompleted {
		t.Fatalf("Expected Completed, got %s", job.Status)
	}
	if len(post.calls) != 0 {
		t.Errorf("Expected no post-processing for video, got %v", post.calls)
	}
}

func TestWorker_PostProcessingError(t *testing.T) {
	p := newFakeProvider()
	p.instant = true
	post := &fakePostProcessor{err: errFake}
	m, rec, id := runSingle(t, p, "https://youtu.be/song", model.FormatAudioMp3, post)

	job, _ := m.Job(id)
	if job.Status != model.StatusError {
		t.Fatalf("Expected Error, got %s", job.Status)
	}
	if err := rec.byKind(EventJobError)[0].Err; !errors.Is(err, ErrTransfer) || !errors.Is(err, errFake) {
		t.Errorf("Expected ErrTransfer wrapping the post-processing error, got %v", err)
	}
}

func TestWorker_StatusSequence(t *testing.T) {
	p := newFakeProvider()
	p.instant = true
	_, rec, id := runSingle(t, p, "https://youtu.be/seq", model.FormatVideoMp4, nil)

	var got []model.JobStatus
	for _, ev := range rec.byKind(EventJobStatusChanged) {
		if ev.JobID == id {
			got = append(got, ev.Status)
		}
	}
	want := []model.JobStatus{model.StatusStarted, model.StatusDownloading, model.StatusCompleted}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Status %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
