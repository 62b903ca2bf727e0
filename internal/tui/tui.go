// Package tui provides a Bubble Tea terminal front end for the download queue.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ytget/downloader-lite/internal/config"
	"github.com/ytget/downloader-lite/internal/download"
	"github.com/ytget/downloader-lite/internal/model"
)

// MaxLogEntries is how many notices are kept below the job list
const MaxLogEntries = 8

// InputMode selects what the text input edits
type InputMode int

const (
	ModeURL InputMode = iota
	ModeDestination
)

// Confirmation is a pending yes/no question
type Confirmation int

const (
	ConfirmNone Confirmation = iota
	ConfirmClear
	ConfirmQuit
)

// LogLevel is the severity of a notice
type LogLevel int

const (
	LevelInfo LogLevel = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// LogEntry is a notice shown below the job list
type LogEntry struct {
	Message string
	Level   LogLevel
}

// Options configures a Model
type Options struct {
	// Config is updated and saved to ConfigPath when the user changes the
	// destination or the format. Both may be empty.
	Config     *config.Config
	ConfigPath string
}

// Message types
type (
	// EventMsg carries a queue event into the program
	EventMsg struct {
		Event download.Event
	}

	// AddedMsg is sent when an AddURL call returns
	AddedMsg struct {
		URL string
		IDs []string
		Err error
	}

	// CommandDoneMsg is sent when a queue command run in the background returns
	CommandDoneMsg struct {
		Command string
		Err     error
	}
)

// Model is the Bubble Tea model for the TUI. Queue commands that can block
// run as tea.Cmds so Update never waits on the queue.
type Model struct {
	queue      download.Queue
	cfg        *config.Config
	configPath string

	input     textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	rowBar    progress.Model
	mode      InputMode
	format    model.Format
	confirm   Confirmation
	resolving int
	closing   bool

	order []string
	jobs  map[string]model.Job
	logs  []LogEntry

	width  int
	height int
}

// NewModel creates a new TUI model for queue
func NewModel(queue download.Queue, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "https://www.youtube.com/watch?v=..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = activeStyle

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	rowBar := progress.New(progress.WithSolidFill("#FF0033"), progress.WithoutPercentage())
	rowBar.Width = 20

	format := config.DefaultFormat
	if opts.Config != nil && opts.Config.Format.IsValid() {
		format = opts.Config.Format
	}

	m := Model{
		queue:      queue,
		cfg:        opts.Config,
		configPath: opts.ConfigPath,
		input:      ti,
		spinner:    sp,
		progress:   prog,
		rowBar:     rowBar,
		format:     format,
		jobs:       make(map[string]model.Job),
	}
	for _, job := range queue.Jobs() {
		m.order = append(m.order, job.ID)
		m.jobs[job.ID] = job
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		if m.confirm != ConfirmNone {
			return m.handleConfirm(msg)
		}
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case EventMsg:
		cmds = append(cmds, m.applyEvent(msg.Event))

	case AddedMsg:
		m.resolving--
		if msg.Err != nil {
			m.addLog(LevelError, addErrorMessage(msg.URL, msg.Err))
		} else {
			m.addLog(LevelInfo, fmt.Sprintf("Added %d job(s) from %s", len(msg.IDs), msg.URL))
		}

	case CommandDoneMsg:
		if msg.Err != nil {
			m.addLog(LevelError, commandErrorMessage(msg.Command, msg.Err))
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey processes global shortcuts. Keys it does not claim go to the input.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "esc":
		if m.mode == ModeDestination && msg.String() == "esc" {
			m.setMode(ModeURL)
			return nil, true
		}
		if m.queue.ActiveCount() > 0 {
			m.confirm = ConfirmQuit
			return nil, true
		}
		return m.quit(false), true

	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			return nil, true
		}
		m.input.SetValue("")
		if m.mode == ModeDestination {
			m.setDestination(value)
			m.setMode(ModeURL)
			return nil, true
		}
		m.resolving++
		return m.addURL(value, m.format), true

	case "tab":
		if m.format == model.FormatVideoMp4 {
			m.format = model.FormatAudioMp3
		} else {
			m.format = model.FormatVideoMp4
		}
		m.saveConfig()
		return nil, true

	case "ctrl+o":
		if m.mode == ModeDestination {
			m.setMode(ModeURL)
		} else {
			m.setMode(ModeDestination)
		}
		return nil, true

	case "ctrl+s":
		return m.start(), true

	case "ctrl+x":
		if m.queue.ActiveCount() == 0 {
			return nil, true
		}
		m.addLog(LevelWarning, "Cancelling active downloads...")
		queue := m.queue
		return runCommand("cancel", func() error {
			queue.CancelAll()
			return nil
		}), true

	case "ctrl+l":
		if m.queue.ActiveCount() > 0 {
			m.confirm = ConfirmClear
			return nil, true
		}
		return m.clear(false), true
	}
	return nil, false
}

func (m Model) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		c := m.confirm
		m.confirm = ConfirmNone
		if c == ConfirmQuit {
			return m, m.quit(true)
		}
		m.addLog(LevelWarning, "Cancelling active downloads...")
		return m, m.clear(true)
	case "n", "N", "esc":
		m.confirm = ConfirmNone
	case "ctrl+c":
		// a second ctrl+c does not ask again
		m.confirm = ConfirmNone
		return m, m.quit(true)
	}
	return m, nil
}

func (m *Model) setMode(mode InputMode) {
	m.mode = mode
	m.input.SetValue("")
	if mode == ModeDestination {
		m.input.Placeholder = "/path/to/downloads"
		m.input.SetValue(m.queue.Destination())
		m.input.CursorEnd()
	} else {
		m.input.Placeholder = "https://www.youtube.com/watch?v=..."
	}
}

func (m *Model) setDestination(path string) {
	m.queue.SetDestination(path)
	m.addLog(LevelInfo, "Saving to "+path)
	m.saveConfig()
}

func (m *Model) saveConfig() {
	if m.cfg == nil {
		return
	}
	m.cfg.Format = m.format
	if dest := m.queue.Destination(); dest != "" {
		m.cfg.DownloadDir = dest
	}
	if m.configPath == "" {
		return
	}
	if err := m.cfg.Save(m.configPath); err != nil {
		log.Printf("Failed to save settings to %s: %v", m.configPath, err)
		m.addLog(LevelWarning, "Could not save settings")
	}
}

func (m *Model) start() tea.Cmd {
	return runCommand("start", m.queue.Start)
}

func (m *Model) clear(confirm bool) tea.Cmd {
	queue := m.queue
	return runCommand("clear", func() error {
		return queue.ClearAll(confirm)
	})
}

func (m *Model) quit(confirm bool) tea.Cmd {
	m.closing = true
	queue := m.queue
	return func() tea.Msg {
		if err := queue.Close(confirm); err != nil {
			log.Printf("Failed to close queue: %v", err)
		}
		return tea.Quit()
	}
}

func runCommand(name string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return CommandDoneMsg{Command: name, Err: fn()}
	}
}

func (m *Model) addURL(rawURL string, format model.Format) tea.Cmd {
	queue := m.queue
	return func() tea.Msg {
		ids, err := queue.AddURL(context.Background(), rawURL, format)
		return AddedMsg{URL: rawURL, IDs: ids, Err: err}
	}
}

// applyEvent updates the rendered job list
func (m *Model) applyEvent(ev download.Event) tea.Cmd {
	switch ev.Kind {
	case download.EventJobAdded:
		if _, ok := m.jobs[ev.JobID]; !ok {
			m.order = append(m.order, ev.JobID)
		}
		m.jobs[ev.JobID] = m.lookupJob(ev)

	case download.EventJobStatusChanged:
		job, ok := m.jobs[ev.JobID]
		if !ok {
			return nil
		}
		if ev.Status.IsFinished() {
			job = m.lookupJob(ev)
		}
		job.Status = ev.Status
		m.jobs[ev.JobID] = job

	case download.EventJobProgress:
		if job, ok := m.jobs[ev.JobID]; ok {
			job.Percent = ev.Percent
			m.jobs[ev.JobID] = job
		}

	case download.EventGlobalProgress:
		return m.progress.SetPercent(float64(ev.Percent) / 100)

	case download.EventJobError:
		title := ev.Title
		if job, ok := m.jobs[ev.JobID]; ok {
			title = job.GetDisplayTitle()
		}
		if title == "" {
			title = ev.URL
		}
		reason := "failed"
		if job, ok := m.queue.Job(ev.JobID); ok && job.Error != "" {
			reason = job.Error
		}
		m.addLog(LevelError, fmt.Sprintf("%s: %s", title, reason))

	case download.EventAllComplete:
		m.addLog(LevelSuccess, fmt.Sprintf("All done: %d of %d finished", ev.Completed, ev.Total))
		return m.progress.SetPercent(1)

	case download.EventQueueCleared:
		m.order = nil
		m.jobs = make(map[string]model.Job)
		m.addLog(LevelInfo, "List cleared")
		return m.progress.SetPercent(0)
	}
	return nil
}

func (m *Model) lookupJob(ev download.Event) model.Job {
	if job, ok := m.queue.Job(ev.JobID); ok {
		return job
	}
	job := m.jobs[ev.JobID]
	job.ID = ev.JobID
	if ev.URL != "" {
		job.URL = ev.URL
	}
	if ev.Title != "" {
		job.Title = ev.Title
	}
	if ev.Status != "" {
		job.Status = ev.Status
	}
	return job
}

func (m *Model) addLog(level LogLevel, message string) {
	m.logs = append(m.logs, LogEntry{Message: message, Level: level})
	if len(m.logs) > MaxLogEntries {
		m.logs = m.logs[len(m.logs)-MaxLogEntries:]
	}
}

func addErrorMessage(rawURL string, err error) string {
	switch {
	case errors.Is(err, download.ErrInvalidURL):
		return "Invalid URL: " + rawURL
	case errors.Is(err, download.ErrPlaylist):
		return "Could not read playlist: " + rawURL
	case errors.Is(err, download.ErrClosed):
		return "Queue is closed"
	default:
		return err.Error()
	}
}

func commandErrorMessage(command string, err error) string {
	switch {
	case errors.Is(err, download.ErrEmptyQueue):
		return "Nothing to download: add a URL first"
	case errors.Is(err, download.ErrNoDestination):
		return "No download folder: press ctrl+o to set one"
	case errors.Is(err, download.ErrDownloadsInProgress):
		return "Downloads are still running"
	default:
		return fmt.Sprintf("%s failed: %v", command, err)
	}
}

// Run starts the TUI for queue. subscribe receives the handler that feeds
// queue events into the program.
func Run(queue download.Queue, opts Options, subscribe func(download.EventHandler)) error {
	p := tea.NewProgram(NewModel(queue, opts), tea.WithAltScreen())
	subscribe(func(ev download.Event) {
		p.Send(EventMsg{Event: ev})
	})
	_, err := p.Run()
	return err
}
