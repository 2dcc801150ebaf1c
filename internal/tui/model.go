// Package tui is the terminal chat panel. It renders ChatQueue snapshots and
// turns key presses into submissions.
package tui

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/textarea"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/billie-coop/genomechat/internal/chat"
	"github.com/billie-coop/genomechat/internal/chatqueue"
	"github.com/billie-coop/genomechat/internal/events"
	"github.com/billie-coop/genomechat/internal/logger"
	"github.com/billie-coop/genomechat/internal/prompts"
)

// Queue is the part of the chat queue the panel drives.
type Queue interface {
	Submit(text string) (chat.ID, error)
	DequeueSuggestion(text string) (chat.ID, error)
	DismissError()
	Snapshot() chatqueue.Snapshot
}

// HealthChecker probes the backend.
type HealthChecker interface {
	Health(ctx context.Context) error
	BaseURL() string
}

// Options configures a Model.
type Options struct {
	Queue       Queue
	Broker      *events.Broker
	Health      HealthChecker
	Logger      *logger.Logger
	Suggestions []string
}

type healthMsg struct {
	err error
}

type healthState int

const (
	healthUnknown healthState = iota
	healthOnline
	healthOffline
)

const healthTimeout = 5 * time.Second

// Model is the chat panel.
type Model struct {
	queue    Queue
	health   HealthChecker
	log      *logger.Logger
	eventSub <-chan events.Event
	broker   *events.Broker

	snapshot chatqueue.Snapshot

	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model
	markdown markdownRenderer

	suggestions []string
	selected    int

	healthState healthState
	healthErr   error

	width  int
	height int
}

// New creates the panel. It subscribes to the broker immediately so no
// event published before Init is missed.
func New(opts Options) *Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about genomic predictions..."
	ta.Prompt = ""
	ta.CharLimit = -1
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Suggestions == nil {
		opts.Suggestions = prompts.Suggestions
	}

	m := &Model{
		queue:       opts.Queue,
		health:      opts.Health,
		log:         opts.Logger,
		broker:      opts.Broker,
		viewport:    viewport.New(),
		input:       ta,
		spinner:     newSpinner(),
		suggestions: opts.Suggestions,
	}
	if opts.Broker != nil {
		m.eventSub = opts.Broker.Subscribe()
	}
	m.snapshot = m.queue.Snapshot()
	return m
}

// Init starts the spinner, the event listener and the health probe.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, m.spinner.Tick, m.checkHealth()}
	if m.eventSub != nil {
		cmds = append(cmds, m.listenForEvents())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case events.Event:
		m.refresh()
		return m, m.listenForEvents()

	case healthMsg:
		m.healthErr = msg.err
		if msg.err != nil {
			m.healthState = healthOffline
			m.log.Warn("backend health check failed", "url", m.health.BaseURL(), "error", msg.err)
		} else {
			m.healthState = healthOnline
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.snapshot.Busy() {
			m.renderTranscript(false)
		}
		return m, cmd
	}

	var taCmd, vpCmd tea.Cmd
	m.input, taCmd = m.input.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(taCmd, vpCmd)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch key := msg.String(); key {
	case "ctrl+c":
		return tea.Quit, true

	case "enter":
		text := m.input.Value()
		m.input.Reset()
		m.submit(m.queue.Submit, text)
		return nil, true

	case "esc":
		if m.snapshot.LastError != "" {
			m.queue.DismissError()
			m.refresh()
		}
		return nil, true

	case "tab":
		if len(m.suggestions) > 0 {
			m.selected = (m.selected + 1) % len(m.suggestions)
		}
		return nil, true

	case "shift+tab":
		if len(m.suggestions) > 0 {
			m.selected = (m.selected - 1 + len(m.suggestions)) % len(m.suggestions)
		}
		return nil, true

	case "ctrl+s":
		if len(m.suggestions) > 0 {
			m.submit(m.queue.DequeueSuggestion, m.suggestions[m.selected])
		}
		return nil, true

	case "alt+1", "alt+2", "alt+3", "alt+4", "alt+5", "alt+6", "alt+7", "alt+8", "alt+9":
		n, _ := strconv.Atoi(key[len("alt+"):])
		if n <= len(m.suggestions) {
			m.selected = n - 1
			m.submit(m.queue.DequeueSuggestion, m.suggestions[n-1])
		}
		return nil, true
	}
	return nil, false
}

func (m *Model) submit(fn func(string) (chat.ID, error), text string) {
	id, err := fn(text)
	switch {
	case errors.Is(err, chatqueue.ErrEmptyMessage):
		return
	case err != nil:
		m.log.Error("submit failed", "error", err)
		return
	}
	m.log.Debug("submitted", "message_id", id)
	m.refresh()
}

// refresh pulls the latest snapshot. Events may be dropped by a full
// subscriber buffer, so the queue itself is the source of truth.
func (m *Model) refresh() {
	m.snapshot = m.queue.Snapshot()
	m.renderTranscript(true)
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	vpHeight := height - chromeHeight()
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport = viewport.New(
		viewport.WithWidth(width),
		viewport.WithHeight(vpHeight),
	)
	m.viewport.MouseWheelEnabled = true
	m.input.SetWidth(width - 4)
	m.renderTranscript(true)
}

// listenForEvents waits for the next queue event.
func (m *Model) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.eventSub
		if !ok {
			return nil
		}
		return event
	}
}

func (m *Model) checkHealth() tea.Cmd {
	if m.health == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
		defer cancel()
		return healthMsg{err: m.health.Health(ctx)}
	}
}

// Close releases the event subscription.
func (m *Model) Close() {
	if m.broker != nil && m.eventSub != nil {
		m.broker.Unsubscribe(m.eventSub)
	}
}
