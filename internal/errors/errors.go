// Package errors provides structured error types for secops.
// Errors carry the operation that failed and a Kind; the scan outcomes
// form a closed subset of kinds that the UI maps to a single message each.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindIO
	KindConfig

	// Scan outcomes, in the order the orchestrator checks for them.
	KindUnsupportedBuffer
	KindTooLarge
	KindAgentUnavailable
	KindNoAgentThread
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindIO:
		return "I/O error"
	case KindConfig:
		return "configuration error"
	case KindUnsupportedBuffer:
		return "unsupported buffer"
	case KindTooLarge:
		return "too large"
	case KindAgentUnavailable:
		return "agent unavailable"
	case KindNoAgentThread:
		return "no agent thread"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for secops.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...any) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// As is errors.As, re-exported so callers importing this package under the
// name "errors" keep access to it.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Scan errors

func UnsupportedBuffer() error {
	return E(Op("scan.Run"), KindUnsupportedBuffer, "buffer is not a single file-backed text document")
}

func TooLarge(err error) error {
	return E(Op("scan.Run"), KindTooLarge, err)
}

func AgentUnavailable() error {
	return E(Op("scan.Run"), KindAgentUnavailable, "conversation capability is not available in this session")
}

func NoAgentThread() error {
	return E(Op("scan.Run"), KindNoAgentThread, "no active thread after creation attempt")
}

// Host errors

func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigSaveFailed(path string, err error) error {
	return E(Op("config.Save"), KindConfig, fmt.Sprintf("failed to save config to %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}

func BufferOpenFailed(path string, err error) error {
	return E(Op("buffer.Open"), KindIO, fmt.Sprintf("failed to open %s", path), err)
}

func ThreadNotFound(id string) error {
	return E(Op("thread.Get"), KindNotFound, fmt.Sprintf("thread %s not found", id))
}
