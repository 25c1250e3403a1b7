// Package notification delivers user-facing notices.
//
// A Notice is keyed by a stable ID: showing a notice with the same ID as an
// existing one replaces it instead of stacking a second one. Toasts keeps
// notices in memory for the terminal hosts; Desktop forwards them to the
// operating system through beeep.
package notification

import (
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/zhubert/secops/internal/logger"
)

// Level is the severity of a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a single message for the user.
type Notice struct {
	ID         string
	Title      string
	Message    string
	Level      Level
	Persistent bool // false means auto-dismiss
}

// Sink accepts notices.
type Sink interface {
	Show(n Notice)
}

// notifyFunc matches beeep.Notify.
type notifyFunc func(title, message string, icon any) error

var (
	notifierMu sync.RWMutex
	notifier   notifyFunc = beeep.Notify
)

// SetNotifier replaces the desktop notification function. Used by tests.
func SetNotifier(fn func(title, message string, icon any) error) {
	notifierMu.Lock()
	defer notifierMu.Unlock()
	notifier = fn
}

// ResetNotifier restores the beeep notifier.
func ResetNotifier() {
	notifierMu.Lock()
	defer notifierMu.Unlock()
	notifier = beeep.Notify
}

// Send sends a desktop notification with the given title and message.
// On macOS, it uses terminal-notifier or AppleScript.
// On Linux, it uses D-Bus or notify-send.
// On Windows, it uses the Windows Runtime COM API.
func Send(title, message string) error {
	logger.Debug("Notification: sending title=%q message=%q", title, message)

	notifierMu.RLock()
	fn := notifier
	notifierMu.RUnlock()

	// Empty icon lets beeep pick the platform default
	err := fn(title, message, "")
	if err != nil {
		logger.Warn("Notification: failed to send: %v", err)
	}
	return err
}

// Desktop is a Sink that forwards notices to the OS notification center.
// OS notifications cannot be replaced, so the ID is only used to drop an
// exact repeat of the last notice.
type Desktop struct {
	Enabled func() bool

	mu   sync.Mutex
	last Notice
}

// Show implements Sink.
func (d *Desktop) Show(n Notice) {
	if d.Enabled != nil && !d.Enabled() {
		return
	}

	d.mu.Lock()
	if n.ID != "" && d.last == n {
		d.mu.Unlock()
		return
	}
	d.last = n
	d.mu.Unlock()

	title := n.Title
	if title == "" {
		title = "secops"
	}
	_ = Send(title, n.Message)
}

// Fanout shows every notice on each of its sinks in order.
type Fanout []Sink

// Show implements Sink.
func (f Fanout) Show(n Notice) {
	for _, s := range f {
		if s != nil {
			s.Show(n)
		}
	}
}

// ToastDuration is how long an auto-dismissing toast stays visible.
const ToastDuration = 3 * time.Second

type toast struct {
	notice  Notice
	expires time.Time // zero for persistent notices
}

// Toasts is an in-memory, ID-keyed Sink used by the terminal hosts.
type Toasts struct {
	mu     sync.Mutex
	now    func() time.Time
	order  []string
	toasts map[string]toast
}

// NewToasts creates an empty toast store.
func NewToasts() *Toasts {
	return &Toasts{
		now:    time.Now,
		toasts: make(map[string]toast),
	}
}

// Show implements Sink. A notice with an existing ID replaces the old one
// and moves to the end of the list.
func (t *Toasts) Show(n Notice) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := toast{notice: n}
	if !n.Persistent {
		entry.expires = t.now().Add(ToastDuration)
	}

	if _, exists := t.toasts[n.ID]; exists {
		t.removeLocked(n.ID)
	}
	t.toasts[n.ID] = entry
	t.order = append(t.order, n.ID)
}

// Active returns the visible notices, oldest first, dropping expired ones.
func (t *Toasts) Active() []Notice {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	var out []Notice
	for _, id := range append([]string(nil), t.order...) {
		entry := t.toasts[id]
		if !entry.expires.IsZero() && !now.Before(entry.expires) {
			t.removeLocked(id)
			continue
		}
		out = append(out, entry.notice)
	}
	return out
}

// Latest returns the most recently shown visible notice.
func (t *Toasts) Latest() (Notice, bool) {
	active := t.Active()
	if len(active) == 0 {
		return Notice{}, false
	}
	return active[len(active)-1], true
}

// Dismiss removes the notice with the given ID.
func (t *Toasts) Dismiss(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.removeLocked(id)
}

func (t *Toasts) removeLocked(id string) {
	delete(t.toasts, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}
