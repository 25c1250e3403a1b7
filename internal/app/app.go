// Package app is the Bubble Tea panel that hosts SecOps Scan for a single
// buffer. Scans run as commands off the update loop and report through the
// panel's toasts.
package app

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/secops/internal/keys"
	"github.com/zhubert/secops/internal/logger"
	"github.com/zhubert/secops/internal/notification"
	"github.com/zhubert/secops/internal/payload"
	"github.com/zhubert/secops/internal/scan"
	"github.com/zhubert/secops/internal/ui"
)

// maxPreviewLines bounds how much of the buffer is highlighted for display.
const maxPreviewLines = 200

// KeyMap holds the panel's key bindings.
type KeyMap struct {
	Scan   key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Scan: key.NewBinding(
			key.WithKeys("s", keys.CtrlS),
			key.WithHelp("s", "secops scan"),
		),
		Cancel: key.NewBinding(
			key.WithKeys(keys.Escape),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", keys.CtrlC),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scan, k.Cancel, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// ScanRequestedMsg asks the panel to run a scan of its buffer.
type ScanRequestedMsg struct{}

// ScanResultMsg carries the outcome of one scan back to the update loop.
type ScanResultMsg struct {
	Payload payload.Payload
	Err     error
}

// BufferReloadedMsg replaces the panel's buffer, e.g. after the file
// changed on disk. Scans already in flight keep the buffer they started with.
type BufferReloadedMsg struct {
	Source scan.BufferSource
}

// ToastExpiredMsg is sent when a toast's display time has elapsed.
type ToastExpiredMsg struct{}

// Model is the panel model.
type Model struct {
	path   string
	source scan.BufferSource
	sink   scan.ConversationSink

	toasts  *notification.Toasts
	notify  notification.Sink // optional extra sink, e.g. desktop
	keyMap  KeyMap
	help    help.Model
	style   string
	preview string

	// ctx is cancelled and replaced when the user cancels in-flight scans.
	ctx      context.Context
	cancel   context.CancelFunc
	inFlight *atomic.Int32

	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithNotifier adds a sink that receives every scan notice alongside the
// panel's own toasts.
func WithNotifier(s notification.Sink) Option {
	return func(m *Model) { m.notify = s }
}

// WithPreviewStyle sets the chroma style for the buffer preview.
func WithPreviewStyle(style string) Option {
	return func(m *Model) { m.style = style }
}

// New creates a panel for the buffer at path.
func New(path string, source scan.BufferSource, sink scan.ConversationSink, opts ...Option) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		path:     path,
		source:   source,
		sink:     sink,
		toasts:   notification.NewToasts(),
		keyMap:   DefaultKeyMap(),
		help:     help.New(),
		style:    ui.DefaultPreviewStyle,
		ctx:      ctx,
		cancel:   cancel,
		inFlight: &atomic.Int32{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.preview = renderPreview(source, path, m.style)
	return m
}

func renderPreview(source scan.BufferSource, path, style string) string {
	lines := strings.SplitN(source.SnapshotText(), "\n", maxPreviewLines+1)
	if len(lines) > maxPreviewLines {
		lines = lines[:maxPreviewLines]
	}
	return ui.HighlightCode(strings.Join(lines, "\n"), path, style)
}

// Toasts returns the panel's toast store.
func (m *Model) Toasts() *notification.Toasts {
	return m.toasts
}

// Scanning reports whether any scan is in flight.
func (m *Model) Scanning() bool {
	return m.inFlight.Load() > 0
}

// Close cancels any in-flight scans.
func (m *Model) Close() {
	m.cancel()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keyMap.Scan):
			return m, m.startScan()
		case key.Matches(msg, m.keyMap.Cancel):
			m.cancelScans()
		}

	case ScanRequestedMsg:
		return m, m.startScan()

	case BufferReloadedMsg:
		m.source = msg.Source
		m.preview = renderPreview(m.source, m.path, m.style)

	case ScanResultMsg:
		m.inFlight.Add(-1)
		var sink notification.Sink = m.toasts
		if m.notify != nil {
			sink = notification.Fanout{m.toasts, m.notify}
		}
		scan.Report(sink, msg.Payload, msg.Err)
		return m, toastTimer()

	case ToastExpiredMsg:
		// Active drops expired notices; re-rendering is enough.
	}
	return m, nil
}

// startScan returns a command that runs one scan against the current
// context.
func (m *Model) startScan() tea.Cmd {
	ctx, src, sink := m.ctx, m.source, m.sink
	m.inFlight.Add(1)
	logger.ComponentLogger("app").Debug("scan requested", "path", m.path)
	return func() tea.Msg {
		p, err := scan.Run(ctx, src, sink)
		return ScanResultMsg{Payload: p, Err: err}
	}
}

func (m *Model) cancelScans() {
	if m.inFlight.Load() == 0 {
		return
	}
	logger.ComponentLogger("app").Info("cancelling scans", "in_flight", m.inFlight.Load())
	m.cancel()
	m.ctx, m.cancel = context.WithCancel(context.Background())
}

func toastTimer() tea.Cmd {
	return tea.Tick(notification.ToastDuration, func(time.Time) tea.Msg {
		return ToastExpiredMsg{}
	})
}
