package download

import (
	"context"
	"errors"
	"fmt"

	"github.com/ytget/downloader-lite/internal/model"
)

// worker runs a single job. Its fields other than cancelled and outputPath
// never change after creation; cancelled is guarded by Manager.mu and
// outputPath is only written by the worker goroutine before it reports done.
type worker struct {
	manager *Manager
	job     model.Job
	destDir string

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	cancelled   bool
	outputPath  string
	lastPercent int
}

func newWorker(m *Manager, job model.Job, destDir string) *worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &worker{
		manager: m,
		job:     job,
		destDir: destDir,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// run executes the job and always reports the outcome to the manager,
// including when the provider panics.
func (w *worker) run() {
	status := model.StatusError
	var err error

	defer func() {
		if r := recover(); r != nil {
			status = model.StatusError
			err = fmt.Errorf("worker panic: %v", r)
		}
		if status == model.StatusError && w.ctx.Err() != nil {
			status = model.StatusCancelled
		}
		w.cancel()
		w.manager.OnWorkerDone(w.job.ID, status, err)
	}()

	status, err = w.execute()
}

func (w *worker) execute() (model.JobStatus, error) {
	m := w.manager

	info, err := m.provider.Resolve(w.ctx, w.job.URL)
	if err != nil {
		return model.StatusError, fmt.Errorf("%w: %w", ErrResolution, err)
	}
	if err := w.ctx.Err(); err != nil {
		return model.StatusCancelled, err
	}
	if info == nil {
		return model.StatusError, fmt.Errorf("%w: provider returned no media info", ErrResolution)
	}

	variant, ok := model.SelectVariant(info.Variants, w.job.Format)
	if !ok {
		return model.StatusError, fmt.Errorf("%w: format %s", ErrNoStreamAvailable, w.job.Format)
	}

	if !m.markDownloading(w.job.ID) {
		return model.StatusCancelled, context.Canceled
	}

	path, err := m.provider.Download(w.ctx, variant, w.destDir, w.onProgress)
	if err != nil {
		if w.ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return model.StatusCancelled, err
		}
		return model.StatusError, fmt.Errorf("%w: %w", ErrTransfer, err)
	}
	if err := w.ctx.Err(); err != nil {
		return model.StatusCancelled, err
	}

	if w.job.Format == model.FormatAudioMp3 && m.post != nil {
		finished, err := m.post.Finish(w.ctx, w.job, info, path)
		if err != nil {
			return model.StatusError, fmt.Errorf("%w: post-processing %s: %w", ErrTransfer, path, err)
		}
		path = finished
	}

	w.outputPath = path
	return model.StatusCompleted, nil
}

// onProgress converts a byte count into a percentage and forwards it when it
// increased since the previous call.
func (w *worker) onProgress(transferred, total int64) {
	if total <= 0 {
		return
	}
	percent := clampPercent(int(transferred * 100 / total))
	if percent <= w.lastPercent {
		return
	}
	w.lastPercent = percent
	w.manager.OnWorkerProgress(w.job.ID, percent)
}
