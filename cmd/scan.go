package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zhubert/secops/internal/buffer"
	"github.com/zhubert/secops/internal/clipboard"
	"github.com/zhubert/secops/internal/config"
	"github.com/zhubert/secops/internal/logger"
	"github.com/zhubert/secops/internal/notification"
	"github.com/zhubert/secops/internal/scan"
	"github.com/zhubert/secops/internal/thread"
	"github.com/zhubert/secops/internal/ui"
)

// maxConcurrentScans bounds how many files are scanned at once.
const maxConcurrentScans = 4

var (
	scanTarget   string
	scanPreview  bool
	scanCombined bool
)

// newClipboardSink is swapped out in tests.
var newClipboardSink = func() scan.ConversationSink { return clipboard.New() }

var scanCmd = &cobra.Command{
	Use:   "scan FILE...",
	Short: "Insert a security review of each file into the active thread",
	Long: `Builds a security-review payload for each file and appends it to the
composer of the active thread, creating a thread if none is active.

Files are scanned independently and concurrently. With --combined, all
files are treated as a single multi-file view, which is not eligible.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanTarget, "to", "", "Destination: threads or clipboard (default from config)")
	scanCmd.Flags().BoolVar(&scanPreview, "preview", false, "Print the highlighted payload after inserting it")
	scanCmd.Flags().BoolVar(&scanCombined, "combined", false, "Scan all files as one multi-file view")
	rootCmd.AddCommand(scanCmd)
}

// newSink returns the destination for target, falling back to the
// configured default.
func newSink(target string, cfg *config.Config) (scan.ConversationSink, error) {
	if target == "" {
		target = cfg.GetDefaultSink()
	}
	switch target {
	case config.SinkThreads:
		return thread.NewStore(cfg), nil
	case config.SinkClipboard:
		return newClipboardSink(), nil
	default:
		return nil, fmt.Errorf("unknown destination %q (want %s or %s)", target, config.SinkThreads, config.SinkClipboard)
	}
}

// lockedWriter serialises writes from concurrent scans.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) println(a ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, a...)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	sink, err := newSink(scanTarget, cfg)
	if err != nil {
		return err
	}

	out := &lockedWriter{w: cmd.OutOrStdout()}
	notices := notification.Fanout{
		ui.Terminal{Println: out.println},
		&notification.Desktop{Enabled: cfg.GetNotificationsEnabled},
	}

	files := make([]*buffer.File, 0, len(args))
	for _, path := range args {
		f, err := buffer.Open(path)
		if err != nil {
			return err
		}
		files = append(files, f)
	}

	if scanCombined {
		src := buffer.NewMulti(files...)
		p, err := scan.Run(cmd.Context(), src, sink)
		scan.Report(notices, p, err)
		if err != nil && !isCancelled(err) {
			return &ScanFailedError{Failed: 1, Total: 1, Err: err}
		}
		return err
	}

	var (
		failed   atomic.Int32
		firstErr error
		errOnce  sync.Once
	)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxConcurrentScans)
	for _, f := range files {
		g.Go(func() error {
			p, err := scan.Run(ctx, f, sink)
			scan.Report(notices, p, err)
			if err != nil {
				logger.Warn("Scan: %s: %v", f.Path(), err)
				if !isCancelled(err) {
					failed.Add(1)
					errOnce.Do(func() { firstErr = err })
				}
				return nil
			}
			if scanPreview {
				out.println(ui.RenderPayloadPreview(p, f.Path(), previewStyle(cfg)))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := cmd.Context().Err(); err != nil {
		return err
	}
	if n := failed.Load(); n > 0 {
		return &ScanFailedError{Failed: int(n), Total: len(files), Err: firstErr}
	}
	return nil
}

// ScanFailedError reports scans that failed after their failure was already
// shown to the user as a notice.
type ScanFailedError struct {
	Failed int
	Total  int
	Err    error // first failure
}

func (e *ScanFailedError) Error() string {
	return fmt.Sprintf("%d of %d scan(s) failed", e.Failed, e.Total)
}

func (e *ScanFailedError) Unwrap() error { return e.Err }

// Reported reports whether err has already been shown to the user, so the
// caller only needs to set the exit status.
func Reported(err error) bool {
	var sf *ScanFailedError
	return errors.As(err, &sf)
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func previewStyle(cfg *config.Config) string {
	if style := cfg.GetTheme(); style != "" {
		return style
	}
	return ui.DefaultPreviewStyle
}
