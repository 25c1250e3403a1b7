// Package scan submits the active buffer to a conversation thread for a
// security review.
//
// Run performs a fixed sequence of checks and stops at the first failure:
//
//  1. the buffer must be a single file-backed text document
//  2. the payload is built (and may be rejected as too large)
//  3. the conversation capability must be available
//  4. an active thread is found, or created once and looked up again
//  5. the payload is appended to the thread
//  6. the thread is brought to the foreground
//
// Nothing is written to the thread unless every check before step 5 passed,
// so a failed scan never leaves a partial insertion behind. Run holds no
// state between calls; concurrent scans share only what the collaborators
// share.
package scan

import (
	"context"

	perrors "github.com/zhubert/secops/internal/errors"
	"github.com/zhubert/secops/internal/logger"
	"github.com/zhubert/secops/internal/payload"
)

// BufferSource supplies the document being scanned.
type BufferSource interface {
	// IsSingleFileBacked reports whether the buffer is one text document
	// backed by a file on disk.
	IsSingleFileBacked() bool
	// SnapshotText returns the full text of the buffer.
	SnapshotText() string
}

// Thread is a destination conversation that accepts text.
type Thread interface {
	ID() string
	// Len returns the byte length of the text already in the thread's input.
	Len() int
	// AppendText appends text at the end of the thread's input.
	AppendText(ctx context.Context, text string)
}

// ConversationSink supplies destination threads.
type ConversationSink interface {
	CapabilityAvailable(ctx context.Context) bool
	ActiveThread(ctx context.Context) (Thread, bool)
	// CreateThread makes a new thread active. It is best-effort and may do
	// nothing if a thread already exists.
	CreateThread(ctx context.Context)
	BringToForeground(ctx context.Context)
}

const threadSeparator = "\n\n"

// Run scans src into a thread provided by sink.
//
// Errors are *errors.Error values of kind KindUnsupportedBuffer,
// KindTooLarge, KindAgentUnavailable or KindNoAgentThread. If ctx is done
// before a collaborator step, Run stops and returns ctx.Err().
func Run(ctx context.Context, src BufferSource, sink ConversationSink) (payload.Payload, error) {
	log := logger.ComponentLogger("scan")

	if !src.IsSingleFileBacked() {
		log.Debug("buffer rejected", "reason", "not single file-backed")
		return payload.Payload{}, perrors.UnsupportedBuffer()
	}

	p, err := payload.Build(src.SnapshotText())
	if err != nil {
		log.Debug("payload rejected", "error", err)
		return payload.Payload{}, perrors.TooLarge(err)
	}
	log.Debug("payload built", "bytes", p.OriginalBytes, "truncated", p.Truncated)

	if err := ctx.Err(); err != nil {
		return payload.Payload{}, err
	}
	if !sink.CapabilityAvailable(ctx) {
		return payload.Payload{}, perrors.AgentUnavailable()
	}

	if err := ctx.Err(); err != nil {
		return payload.Payload{}, err
	}
	thread, ok := sink.ActiveThread(ctx)
	if !ok {
		log.Debug("no active thread, creating one")
		sink.CreateThread(ctx)
		thread, ok = sink.ActiveThread(ctx)
		if !ok {
			return payload.Payload{}, perrors.NoAgentThread()
		}
	}

	if err := ctx.Err(); err != nil {
		return payload.Payload{}, err
	}
	text := p.Text
	if thread.Len() > 0 {
		text = threadSeparator + text
	}
	thread.AppendText(ctx, text)
	log.Info("payload inserted", "thread", thread.ID(), "bytes", len(text), "truncated", p.Truncated)

	sink.BringToForeground(ctx)
	return p, nil
}
