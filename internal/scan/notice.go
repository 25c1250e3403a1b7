package scan

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/zhubert/secops/internal/errors"
	"github.com/zhubert/secops/internal/notification"
	"github.com/zhubert/secops/internal/payload"
)

// NoticeID keys every scan notice so a new scan replaces the previous one.
const NoticeID = "secops-scan"

const noticeTitle = "SecOps Scan"

// Message returns the user-facing sentence for a scan error.
func Message(err error) string {
	switch perrors.GetKind(err) {
	case perrors.KindUnsupportedBuffer:
		return "SecOps Scan works only for file-backed text buffers"
	case perrors.KindTooLarge:
		var tooLarge *payload.TooLargeError
		if perrors.As(err, &tooLarge) {
			return fmt.Sprintf("File too large for SecOps Scan (%d bytes > %d bytes limit)", tooLarge.Bytes, payload.HardLimit)
		}
		return fmt.Sprintf("File too large for SecOps Scan (limit %d bytes)", payload.HardLimit)
	case perrors.KindAgentUnavailable:
		return "Open the Agent panel to use SecOps Scan"
	case perrors.KindNoAgentThread:
		return "Create or select an agent thread to use SecOps Scan"
	default:
		return fmt.Sprintf("SecOps Scan failed: %v", err)
	}
}

// Notice converts the result of Run into the notice to show. It returns
// false when nothing should be shown, which is the case for a cancelled scan.
func Notice(p payload.Payload, err error) (notification.Notice, bool) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return notification.Notice{}, false
	}

	n := notification.Notice{ID: NoticeID, Title: noticeTitle}
	switch {
	case err != nil:
		n.Level = notification.LevelError
		n.Message = Message(err)
	case p.Truncated:
		n.Level = notification.LevelWarning
		n.Message = fmt.Sprintf("SecOps Scan inserted (truncated to %d KB)", payload.SoftLimit/1024)
	default:
		n.Level = notification.LevelSuccess
		n.Message = "SecOps Scan inserted into chat composer"
	}
	return n, true
}

// Report runs the notice for a scan result through sink.
func Report(sink notification.Sink, p payload.Payload, err error) {
	if n, ok := Notice(p, err); ok {
		sink.Show(n)
	}
}
