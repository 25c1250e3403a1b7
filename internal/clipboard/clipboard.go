// Package clipboard sends scan payloads to the system clipboard.
//
// Sink is a scan.ConversationSink for hosts without a conversation panel:
// the clipboard acts as the one, always-active thread, and the user pastes
// the payload into whatever chat they use. The capability is available when
// the platform clipboard can be initialised.
package clipboard

import (
	"context"
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"github.com/zhubert/secops/internal/logger"
	"github.com/zhubert/secops/internal/scan"
)

// Backend is the clipboard the sink writes to. WriteText must return once
// the text is handed to the platform; it must not wait for the clipboard to
// change hands.
type Backend interface {
	Init() error
	WriteText(text string)
}

type system struct{}

func (system) Init() error {
	if err := clipboard.Init(); err != nil {
		return fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	return nil
}

// WriteText hands text to the platform clipboard. The channel returned by
// clipboard.Write only fires when another program takes ownership, so it is
// not waited on.
func (system) WriteText(text string) {
	clipboard.Write(clipboard.FmtText, []byte(text))
}

// Sink is a clipboard-backed scan.ConversationSink. Text appended during the
// sink's lifetime accumulates, so several scans in one run end up on the
// clipboard together.
type Sink struct {
	backend Backend

	initOnce sync.Once
	initErr  error

	mu      sync.Mutex
	content string
}

var _ scan.ConversationSink = (*Sink)(nil)

// New returns a Sink using the system clipboard.
func New() *Sink {
	return NewWithBackend(system{})
}

// NewWithBackend returns a Sink writing to b.
func NewWithBackend(b Backend) *Sink {
	return &Sink{backend: b}
}

// CapabilityAvailable implements scan.ConversationSink.
func (s *Sink) CapabilityAvailable(context.Context) bool {
	s.initOnce.Do(func() {
		s.initErr = s.backend.Init()
		if s.initErr != nil {
			logger.Warn("Clipboard: %v", s.initErr)
		}
	})
	return s.initErr == nil
}

// ActiveThread implements scan.ConversationSink.
func (s *Sink) ActiveThread(ctx context.Context) (scan.Thread, bool) {
	if !s.CapabilityAvailable(ctx) {
		return nil, false
	}
	return (*clipThread)(s), true
}

// CreateThread implements scan.ConversationSink. The clipboard always exists.
func (s *Sink) CreateThread(context.Context) {}

// BringToForeground implements scan.ConversationSink. There is nothing to
// focus; the write itself is the visible effect.
func (s *Sink) BringToForeground(context.Context) {
	logger.Debug("Clipboard: payload ready to paste")
}

// Content returns everything this sink has written.
func (s *Sink) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

type clipThread Sink

func (t *clipThread) ID() string { return "clipboard" }

func (t *clipThread) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.content)
}

func (t *clipThread) AppendText(_ context.Context, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.content += text
	t.backend.WriteText(t.content)
	logger.Debug("Clipboard: wrote %d bytes", len(t.content))
}
