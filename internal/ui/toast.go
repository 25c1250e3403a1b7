package ui

import (
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/secops/internal/notification"
)

// ToastIcon returns the icon shown in front of a notice.
func ToastIcon(level notification.Level) string {
	switch level {
	case notification.LevelError:
		return "✕"
	case notification.LevelWarning:
		return "⚠"
	case notification.LevelSuccess:
		return "✓"
	default:
		return "ℹ"
	}
}

// RenderToast renders a notice on one line, cut to width cells when width
// is positive.
func RenderToast(n notification.Notice, width int) string {
	text := ToastIcon(n.Level) + " " + n.Message
	if width > 0 {
		text = ansi.Truncate(text, width, "…")
	}

	switch n.Level {
	case notification.LevelError:
		return ToastErrorStyle.Render(text)
	case notification.LevelWarning:
		return ToastWarningStyle.Render(text)
	case notification.LevelSuccess:
		return ToastSuccessStyle.Render(text)
	default:
		return ToastInfoStyle.Render(text)
	}
}

// Terminal is a notification.Sink that prints notices to a writer-like
// function, one line each.
type Terminal struct {
	Println func(a ...any)
	Width   int
}

// Show implements notification.Sink.
func (t Terminal) Show(n notification.Notice) {
	if t.Println == nil {
		return
	}
	t.Println(RenderToast(n, t.Width))
}
