// Package logger writes the secops debug log.
//
// Output goes to a single text file through log/slog. The printf-style
// helpers are for quick messages; ComponentLogger returns a structured
// *slog.Logger tagged with a component name.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DefaultLogPath is used when Init is never called.
const DefaultLogPath = "/tmp/secops-debug.log"

var (
	mu       sync.Mutex
	base     *slog.Logger
	logFile  *os.File
	logPath  string
	levelVar = new(slog.LevelVar)
	level    = LevelInfo
)

// SetLevel sets the minimum log level to output
func SetLevel(l LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	level = l
	levelVar.Set(l.slogLevel())
}

// SetDebug toggles between debug and info level
func SetDebug(enabled bool) {
	if enabled {
		SetLevel(LevelDebug)
	} else {
		SetLevel(LevelInfo)
	}
}

// Init opens path for appending and routes all logging there.
// Calling Init again after a successful call is a no-op.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if base != nil {
		return nil
	}
	return openLocked(path)
}

func openLocked(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	logFile = f
	logPath = path
	levelVar.Set(level.slogLevel())
	base = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar}))
	base.Info("Logger initialized", "path", path)
	return nil
}

// ensureLocked lazily opens the default log file. mu must be held.
func ensureLocked() {
	if base != nil {
		return
	}
	if err := openLocked(DefaultLogPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

func logf(l slog.Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	ensureLocked()
	if base == nil || !base.Enabled(context.Background(), l) {
		return
	}
	base.Log(context.Background(), l, fmt.Sprintf(format, args...))
}

// Debug writes a debug message
func Debug(format string, args ...any) { logf(slog.LevelDebug, format, args...) }

// Info writes an info message
func Info(format string, args ...any) { logf(slog.LevelInfo, format, args...) }

// Warn writes a warning message
func Warn(format string, args ...any) { logf(slog.LevelWarn, format, args...) }

// Error writes an error message
func Error(format string, args ...any) { logf(slog.LevelError, format, args...) }

// ComponentLogger returns a slog.Logger with the component attribute pre-attached.
//
//	log := logger.ComponentLogger("scan")
//	log.Info("payload built", "bytes", n, "truncated", truncated)
func ComponentLogger(component string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	ensureLocked()
	if base == nil {
		return slog.Default().With(slog.String("component", component))
	}
	return base.With(slog.String("component", component))
}

// Path returns the file currently being written, or "" before first use.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Close closes the log file. Later calls reopen the default path.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	base = nil
}

// Reset closes the log and restores default settings. Used by tests.
func Reset() {
	Close()

	mu.Lock()
	defer mu.Unlock()
	logPath = ""
	level = LevelInfo
	levelVar = new(slog.LevelVar)
}

// ClearLogs removes the default log file. Returns the number of files removed.
func ClearLogs() (int, error) {
	if err := os.Remove(DefaultLogPath); err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	return 1, nil
}
