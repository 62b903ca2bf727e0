package download

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ytget/downloader-lite/internal/model"
	"github.com/ytget/downloader-lite/internal/platform"
)

const (
	// DefaultMaxConcurrent is the concurrency cap used when Options.MaxConcurrent is not positive
	DefaultMaxConcurrent = 3

	// titleResolveLimit bounds concurrent title lookups while expanding a playlist
	titleResolveLimit = 4
)

// Options configures a Manager
type Options struct {
	MaxConcurrent int
	Destination   string
	PostProcessor PostProcessor
	OnEvent       EventHandler
	Logger        *log.Logger
}

// Stats is a point-in-time summary of the queue
type Stats struct {
	Total     int
	Pending   int
	Active    int
	Completed int
	Failed    int
	Cancelled int
}

// Manager owns the backlog, the active set and every job record.
type Manager struct {
	provider      MediaProvider
	post          PostProcessor
	onEvent       EventHandler
	logger        *log.Logger
	maxConcurrent int

	mu                 sync.Mutex
	jobs               map[string]*model.Job
	order              []string
	backlog            []string
	active             map[string]*worker
	destination        string
	totalDownloads     int
	completedDownloads int
	progress           *ProgressAggregator
	lastGlobal         int
	closed             bool
	outbox             []Event

	// flushMu is held by the goroutine currently delivering the outbox
	flushMu sync.Mutex
}

// NewManager creates a new download manager
func NewManager(provider MediaProvider, opts Options) *Manager {
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Manager{
		provider:      provider,
		post:          opts.PostProcessor,
		onEvent:       opts.OnEvent,
		logger:        logger,
		maxConcurrent: maxConcurrent,
		jobs:          make(map[string]*model.Job),
		active:        make(map[string]*worker),
		destination:   strings.TrimSpace(opts.Destination),
		progress:      NewProgressAggregator(),
	}
}

// SetEventHandler replaces the event handler. It is meant to be called once,
// before any job is added, by sinks that need the manager to build themselves.
func (m *Manager) SetEventHandler(h EventHandler) {
	m.mu.Lock()
	m.onEvent = h
	m.mu.Unlock()
}

// MaxConcurrent returns the concurrency cap
func (m *Manager) MaxConcurrent() int {
	return m.maxConcurrent
}

// SetDestination sets the output directory shared by all workers
func (m *Manager) SetDestination(path string) {
	m.mu.Lock()
	m.destination = strings.TrimSpace(path)
	m.mu.Unlock()
}

// Destination returns the configured output directory
func (m *Manager) Destination() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.destination
}

// AddURL enqueues a single video or every entry of a playlist.
func (m *Manager) AddURL(ctx context.Context, url string, format model.Format) ([]string, error) {
	if platform.IsPlaylistURL(url) {
		return m.EnqueuePlaylist(ctx, url, format)
	}
	id, err := m.Enqueue(ctx, url, format)
	if err != nil {
		return nil, err
	}
	return []string{id}, nil
}

// Enqueue resolves the title of url and appends a pending job to the backlog.
// A failed lookup only degrades the title; it never prevents the job from
// being queued.
func (m *Manager) Enqueue(ctx context.Context, url string, format model.Format) (string, error) {
	url = strings.TrimSpace(url)
	if err := m.validateAdd(url, format); err != nil {
		return "", err
	}

	id := newJobID()
	title := m.resolveTitle(ctx, id, url)
	if err := m.addJob(id, url, title, format); err != nil {
		return "", err
	}
	return id, nil
}

// EnqueuePlaylist expands url and enqueues every entry in playlist order. If
// expansion fails nothing is enqueued and a single ErrPlaylist error is returned.
func (m *Manager) EnqueuePlaylist(ctx context.Context, url string, format model.Format) ([]string, error) {
	url = strings.TrimSpace(url)
	if err := m.validateAdd(url, format); err != nil {
		return nil, err
	}

	urls, err := m.provider.ExpandPlaylist(ctx, url)
	if err != nil {
		m.logger.Printf("Playlist expansion failed url=%s: %v", url, err)
		return nil, fmt.Errorf("%w: %s: %w", ErrPlaylist, url, err)
	}
	if len(urls) == 0 {
		m.logger.Printf("Playlist is empty url=%s", url)
		return nil, fmt.Errorf("%w: %s: playlist has no entries", ErrPlaylist, url)
	}

	ids := make([]string, len(urls))
	titles := make([]string, len(urls))
	var g errgroup.Group
	g.SetLimit(titleResolveLimit)
	for i, entry := range urls {
		ids[i] = newJobID()
		g.Go(func() error {
			titles[i] = m.resolveTitle(ctx, ids[i], entry)
			return nil
		})
	}
	_ = g.Wait()

	for i, entry := range urls {
		if err := m.addJob(ids[i], strings.TrimSpace(entry), titles[i], format); err != nil {
			return ids[:i], err
		}
	}
	m.logger.Printf("Playlist added url=%s entries=%d", url, len(urls))
	return ids, nil
}

// Start records the session totals and admits up to MaxConcurrent jobs.
// It fails without changing any state when nothing is queued or no
// destination is configured.
func (m *Manager) Start() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if len(m.backlog) == 0 && len(m.active) == 0 {
		m.mu.Unlock()
		return ErrEmptyQueue
	}
	if m.destination == "" {
		m.mu.Unlock()
		return ErrNoDestination
	}

	m.totalDownloads = len(m.backlog) + len(m.active)
	m.completedDownloads = 0
	m.logger.Printf("Starting downloads total=%d max_concurrent=%d dest=%s", m.totalDownloads, m.maxConcurrent, m.destination)
	m.dispatchLocked()
	m.mu.Unlock()

	m.flush()
	return nil
}

// DispatchMore admits backlog jobs while the active set is below the cap.
// It is the only place that compares the active count against the cap.
func (m *Manager) DispatchMore() {
	m.mu.Lock()
	m.dispatchLocked()
	m.mu.Unlock()
	m.flush()
}

func (m *Manager) dispatchLocked() {
	if m.closed || m.destination == "" {
		return
	}
	for len(m.active) < m.maxConcurrent && len(m.backlog) > 0 {
		id := m.backlog[0]
		m.backlog = m.backlog[1:]

		job, ok := m.jobs[id]
		if !ok {
			continue
		}
		if err := model.TransitionJob(job, model.StatusStarted); err != nil {
			m.logger.Printf("Skipping job=%s url=%s: %v", id, job.URL, err)
			continue
		}
		job.StartedAt = time.Now()

		w := newWorker(m, *job, m.destination)
		m.active[id] = w
		m.emitLocked(Event{Kind: EventJobStatusChanged, JobID: id, Status: job.Status})
		go w.run()
	}
}

// OnWorkerProgress records a new percentage for an active job. Regressions
// are ignored so a job's progress never goes backwards.
func (m *Manager) OnWorkerProgress(id string, percent int) {
	m.mu.Lock()
	job, ok := m.jobs[id]
	if !ok || m.active[id] == nil || job.Status.IsFinished() {
		m.mu.Unlock()
		return
	}
	m.setPercentLocked(job, percent)
	m.mu.Unlock()
	m.flush()
}

// OnWorkerDone removes id from the active set and records its final status.
// Unless the job was cancelled it counts towards completion and frees a slot
// for the next backlog entry.
func (m *Manager) OnWorkerDone(id string, status model.JobStatus, err error) {
	m.mu.Lock()
	w, ok := m.active[id]
	if !ok {
		m.mu.Unlock()
		m.logger.Printf("Ignoring completion of inactive job=%s status=%s", id, status)
		return
	}
	delete(m.active, id)

	if w.cancelled {
		status = model.StatusCancelled
	}
	if !status.IsFinished() {
		status = model.StatusError
		if err == nil {
			err = fmt.Errorf("worker finished with non-terminal status")
		}
	}

	if job, ok := m.jobs[id]; ok {
		m.finishJobLocked(job, status, err, w.outputPath)
	}

	if !w.cancelled {
		m.completedDownloads++
		m.dispatchLocked()
		if len(m.backlog) == 0 && len(m.active) == 0 {
			m.progress.MarkAllComplete()
			m.logger.Printf("All downloads finished completed=%d total=%d", m.completedDownloads, m.totalDownloads)
			m.emitLocked(Event{Kind: EventAllComplete, Completed: m.completedDownloads, Total: m.totalDownloads})
		}
	}
	m.mu.Unlock()

	close(w.done)
	m.flush()
}

func (m *Manager) finishJobLocked(job *model.Job, status model.JobStatus, err error, outputPath string) {
	// a worker may finish straight from Started when the stream step was skipped
	if status == model.StatusCompleted && job.Status == model.StatusStarted {
		_ = model.TransitionJob(job, model.StatusDownloading)
	}
	if terr := model.TransitionJob(job, status); terr != nil {
		m.logger.Printf("Status update rejected job=%s url=%s: %v", job.ID, job.URL, terr)
		return
	}
	job.FinishedAt = time.Now()

	switch status {
	case model.StatusCompleted:
		job.OutputPath = outputPath
		m.setPercentLocked(job, 100)
		m.logger.Printf("Download completed job=%s url=%s path=%s", job.ID, job.URL, outputPath)
	case model.StatusError:
		job.Error = userMessage(err)
		jobErr := &JobError{JobID: job.ID, URL: job.URL, Err: err}
		m.logger.Printf("Download failed job=%s url=%s: %v", job.ID, job.URL, err)
		m.emitLocked(Event{Kind: EventJobError, JobID: job.ID, URL: job.URL, Err: jobErr})
	case model.StatusCancelled:
		m.logger.Printf("Download cancelled job=%s url=%s", job.ID, job.URL)
	}
	m.emitLocked(Event{Kind: EventJobStatusChanged, JobID: job.ID, Status: status})
	m.emitGlobalLocked()
}

// markDownloading is called by a worker once a stream variant was selected.
func (m *Manager) markDownloading(id string) bool {
	m.mu.Lock()
	w := m.active[id]
	job, ok := m.jobs[id]
	if w == nil || w.cancelled || !ok {
		m.mu.Unlock()
		return false
	}
	if err := model.TransitionJob(job, model.StatusDownloading); err != nil {
		m.mu.Unlock()
		m.logger.Printf("Status update rejected job=%s url=%s: %v", id, job.URL, err)
		return false
	}
	m.emitLocked(Event{Kind: EventJobStatusChanged, JobID: id, Status: job.Status})
	m.mu.Unlock()
	m.flush()
	return true
}

// CancelAll stops every active worker and waits until each one has reported
// back. Backlog jobs stay Pending and can be started again.
func (m *Manager) CancelAll() {
	m.mu.Lock()
	workers := make([]*worker, 0, len(m.active))
	for _, w := range m.active {
		w.cancelled = true
		workers = append(workers, w)
	}
	m.mu.Unlock()

	if len(workers) == 0 {
		return
	}
	for _, w := range workers {
		w.cancel()
	}
	for _, w := range workers {
		<-w.done
	}
	m.logger.Printf("Cancelled %d active downloads", len(workers))
	m.flush()
}

// ClearAll discards every job and resets the session counters. With active
// jobs it fails with ErrDownloadsInProgress unless confirm is set, in which
// case the active jobs are cancelled first.
func (m *Manager) ClearAll(confirm bool) error {
	if err := m.stopActive(confirm); err != nil {
		return err
	}

	m.mu.Lock()
	m.jobs = make(map[string]*model.Job)
	m.order = nil
	m.backlog = nil
	m.totalDownloads = 0
	m.completedDownloads = 0
	m.progress.Reset()
	m.emitLocked(Event{Kind: EventQueueCleared})
	m.emitGlobalLocked()
	m.mu.Unlock()

	m.logger.Printf("Download list cleared")
	m.flush()
	return nil
}

// Close shuts the manager down. It follows the same confirmation rule as
// ClearAll. After Close no job can be added or started.
func (m *Manager) Close(confirm bool) error {
	m.mu.Lock()
	busy := len(m.active) > 0
	if busy && !confirm {
		m.mu.Unlock()
		return ErrDownloadsInProgress
	}
	m.closed = true
	m.mu.Unlock()

	if busy {
		m.CancelAll()
	}
	return nil
}

func (m *Manager) stopActive(confirm bool) error {
	for {
		m.mu.Lock()
		busy := len(m.active) > 0
		m.mu.Unlock()
		if !busy {
			return nil
		}
		if !confirm {
			return ErrDownloadsInProgress
		}
		m.CancelAll()
	}
}

// Jobs returns copies of all jobs in insertion order
func (m *Manager) Jobs() []model.Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	jobs := make([]model.Job, 0, len(m.order))
	for _, id := range m.order {
		if job, ok := m.jobs[id]; ok {
			jobs = append(jobs, *job)
		}
	}
	return jobs
}

// Job returns a copy of a job by ID
func (m *Manager) Job(id string) (model.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return model.Job{}, false
	}
	return *job, true
}

// Stats counts jobs by status
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{Total: len(m.jobs)}
	for _, job := range m.jobs {
		switch {
		case job.Status == model.StatusPending:
			s.Pending++
		case job.Status.IsActive():
			s.Active++
		case job.Status == model.StatusCompleted:
			s.Completed++
		case job.Status == model.StatusError:
			s.Failed++
		case job.Status == model.StatusCancelled:
			s.Cancelled++
		}
	}
	return s
}

// GlobalPercent returns the aggregate progress of all tracked jobs
func (m *Manager) GlobalPercent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progress.GlobalPercent()
}

// ActiveCount returns the number of jobs currently owned by a worker
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

func (m *Manager) validateAdd(url string, format model.Format) error {
	if url == "" {
		return ErrInvalidURL
	}
	if !format.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

func (m *Manager) resolveTitle(ctx context.Context, id, url string) string {
	info, err := m.provider.Resolve(ctx, url)
	if err != nil {
		m.logger.Printf("Title lookup failed job=%s url=%s: %v", id, url, err)
		return model.TitleUnavailable
	}
	if info == nil || strings.TrimSpace(info.Title) == "" {
		return model.TitleUnavailable
	}
	return info.Title
}

func (m *Manager) addJob(id, url, title string, format model.Format) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}

	job := &model.Job{
		ID:        id,
		URL:       url,
		Title:     title,
		Status:    model.StatusPending,
		Format:    format,
		CreatedAt: time.Now(),
	}
	m.jobs[id] = job
	m.order = append(m.order, id)
	m.backlog = append(m.backlog, id)
	m.progress.Track(id)

	m.emitLocked(Event{Kind: EventJobAdded, JobID: id, Title: title, URL: url, Status: job.Status})
	m.emitGlobalLocked()
	m.mu.Unlock()

	m.logger.Printf("Job added job=%s url=%s format=%s", id, url, format)
	m.flush()
	return nil
}

func (m *Manager) setPercentLocked(job *model.Job, percent int) {
	percent = clampPercent(percent)
	if percent <= job.Percent {
		return
	}
	job.Percent = percent
	m.progress.Set(job.ID, percent)
	m.emitLocked(Event{Kind: EventJobProgress, JobID: job.ID, Percent: percent})
	m.emitGlobalLocked()
}

func (m *Manager) emitGlobalLocked() {
	global := m.progress.GlobalPercent()
	if global == m.lastGlobal {
		return
	}
	m.lastGlobal = global
	m.emitLocked(Event{Kind: EventGlobalProgress, Percent: global})
}

func (m *Manager) emitLocked(ev Event) {
	if m.onEvent == nil {
		return
	}
	m.outbox = append(m.outbox, ev)
}

// flush delivers queued events. Only one goroutine delivers at a time; others
// return immediately and leave their events to the current drainer, which
// re-checks the outbox before giving up the role.
func (m *Manager) flush() {
	for {
		if !m.flushMu.TryLock() {
			return
		}
		for {
			m.mu.Lock()
			if len(m.outbox) == 0 {
				m.mu.Unlock()
				break
			}
			batch := m.outbox
			m.outbox = nil
			handler := m.onEvent
			m.mu.Unlock()

			for _, ev := range batch {
				if handler != nil {
					handler(ev)
				}
			}
		}
		m.flushMu.Unlock()

		m.mu.Lock()
		pending := len(m.outbox) > 0
		m.mu.Unlock()
		if !pending {
			return
		}
	}
}

func newJobID() string {
	return "job-" + uuid.NewString()
}
