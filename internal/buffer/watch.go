package buffer

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	perrors "github.com/zhubert/secops/internal/errors"
	"github.com/zhubert/secops/internal/logger"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 200 * time.Millisecond

// Watch calls onChange with a freshly opened File each time path is written
// or recreated, until ctx is done. Events within debounce of each other are
// coalesced into one reload.
//
// The parent directory is watched rather than the file, so editors that
// save by renaming a temp file over path are still seen.
func Watch(ctx context.Context, path string, debounce time.Duration, onChange func(*File)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return perrors.BufferOpenFailed(path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return perrors.BufferOpenFailed(path, err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return perrors.BufferOpenFailed(path, err)
	}
	logger.Debug("Buffer: watching %s", abs)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			f, err := Open(abs)
			if err != nil {
				logger.Warn("Buffer: reload of %s failed: %v", abs, err)
				continue
			}
			onChange(f)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Buffer: watch error for %s: %v", abs, err)
		}
	}
}
