package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zhubert/secops/internal/clipboard"
	perrors "github.com/zhubert/secops/internal/errors"
	"github.com/zhubert/secops/internal/payload"
	"github.com/zhubert/secops/internal/scan"
)

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	scanTarget, scanPreview, scanCombined = "", false, false
	listOutput = "text"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func activeDraft(t *testing.T) string {
	t.Helper()
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	th := cfg.GetThread(cfg.GetActiveThreadID())
	if th == nil {
		t.Fatal("no active thread")
	}
	return th.Draft
}

func TestScan_SingleFile(t *testing.T) {
	useConfig(t)
	path := writeFile(t, "main.go", "password := \"hunter2\"")

	out, err := execute(t, "scan", path)
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if !strings.Contains(out, "✓ SecOps Scan inserted into chat composer") {
		t.Errorf("output = %q", out)
	}

	want := payload.Preamble + "\n\npassword := \"hunter2\""
	if got := activeDraft(t); got != want {
		t.Errorf("draft = %q, want %q", got, want)
	}
}

func TestScan_MultipleFilesShareThread(t *testing.T) {
	cfg := useConfig(t)
	a := writeFile(t, "a.go", "alpha")
	b := writeFile(t, "b.go", "beta")

	out, err := execute(t, "scan", a, b)
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if n := strings.Count(out, "SecOps Scan inserted"); n != 2 {
		t.Errorf("expected 2 success notices, got %d in %q", n, out)
	}

	draft := activeDraft(t)
	if strings.Count(draft, payload.Preamble) != 2 {
		t.Errorf("draft should hold both payloads: %q", draft)
	}

	reloaded, _ := loadConfig()
	if len(reloaded.GetThreads()) != 1 {
		t.Errorf("threads = %d, want 1 (cfg had %d)", len(reloaded.GetThreads()), len(cfg.GetThreads()))
	}
}

func TestScan_Combined(t *testing.T) {
	useConfig(t)
	a := writeFile(t, "a.go", "alpha")
	b := writeFile(t, "b.go", "beta")

	out, err := execute(t, "scan", "--combined", a, b)
	if !perrors.Is(err, perrors.KindUnsupportedBuffer) {
		t.Fatalf("err = %v, want UnsupportedBuffer", err)
	}
	if !strings.Contains(out, "SecOps Scan works only for file-backed text buffers") {
		t.Errorf("output = %q", out)
	}
}

func TestScan_TooLarge(t *testing.T) {
	useConfig(t)
	path := writeFile(t, "big.txt", strings.Repeat("a", payload.HardLimit+1))

	out, err := execute(t, "scan", path)
	if err == nil || !strings.Contains(err.Error(), "1 of 1 scan(s) failed") {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(out, "File too large for SecOps Scan (1048577 bytes > 1048576 bytes limit)") {
		t.Errorf("output = %q", out)
	}
}

func TestScan_Truncated(t *testing.T) {
	useConfig(t)
	path := writeFile(t, "big.txt", strings.Repeat("a", payload.SoftLimit+1))

	out, err := execute(t, "scan", path)
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if !strings.Contains(out, "SecOps Scan inserted (truncated to 200 KB)") {
		t.Errorf("output = %q", out)
	}
	if !strings.HasSuffix(activeDraft(t), payload.TruncationNotice()) {
		t.Error("draft should end with the truncation notice")
	}
}

func TestScan_AgentDisabled(t *testing.T) {
	cfg := useConfig(t)
	cfg.SetAgentDisabled(true)
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, "a.go", "alpha")

	out, err := execute(t, "scan", path)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(out, "Open the Agent panel to use SecOps Scan") {
		t.Errorf("output = %q", out)
	}
}

func TestScan_MissingFile(t *testing.T) {
	useConfig(t)

	_, err := execute(t, "scan", filepath.Join(t.TempDir(), "absent.go"))
	if !perrors.Is(err, perrors.KindIO) {
		t.Errorf("err = %v, want KindIO", err)
	}
}

type fakeClipboard struct{ writes []string }

func (f *fakeClipboard) Init() error           { return nil }
func (f *fakeClipboard) WriteText(text string) { f.writes = append(f.writes, text) }

func TestScan_ToClipboard(t *testing.T) {
	useConfig(t)
	backend := &fakeClipboard{}
	orig := newClipboardSink
	newClipboardSink = func() scan.ConversationSink { return clipboard.NewWithBackend(backend) }
	defer func() { newClipboardSink = orig }()

	path := writeFile(t, "a.go", "alpha")
	if _, err := execute(t, "scan", "--to", "clipboard", path); err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if len(backend.writes) != 1 || backend.writes[0] != payload.Preamble+"\n\nalpha" {
		t.Errorf("clipboard writes = %q", backend.writes)
	}
}

func TestScan_UnknownDestination(t *testing.T) {
	useConfig(t)
	path := writeFile(t, "a.go", "alpha")

	_, err := execute(t, "scan", "--to", "pigeon", path)
	if err == nil || !strings.Contains(err.Error(), "unknown destination") {
		t.Errorf("err = %v", err)
	}
}

func TestScan_Preview(t *testing.T) {
	useConfig(t)
	path := writeFile(t, "a.go", "package a")

	out, err := execute(t, "scan", "--preview", path)
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if !strings.Contains(out, payload.Preamble) {
		t.Error("preview should print the preamble")
	}
}

func TestScan_FailureShownOnce(t *testing.T) {
	useConfig(t)
	big := writeFile(t, "big.txt", strings.Repeat("a", payload.HardLimit+1))
	ok := writeFile(t, "ok.go", "alpha")

	out, err := execute(t, "scan", big, ok)
	if err == nil {
		t.Fatal("expected an error so the exit status is non-zero")
	}
	if !Reported(err) {
		t.Errorf("scan failures should be marked as already reported, got %v", err)
	}
	if !perrors.Is(err, perrors.KindTooLarge) {
		t.Errorf("err should wrap the scan failure, got kind %v", perrors.GetKind(err))
	}
	if n := strings.Count(out, "File too large for SecOps Scan"); n != 1 {
		t.Errorf("failure shown %d times, want 1: %q", n, out)
	}
	if strings.Contains(out, err.Error()) {
		t.Errorf("returned error should not be printed by the command: %q", out)
	}
}

func TestScan_CombinedFailureReported(t *testing.T) {
	useConfig(t)
	a := writeFile(t, "a.go", "alpha")
	b := writeFile(t, "b.go", "beta")

	_, err := execute(t, "scan", "--combined", a, b)
	if !Reported(err) {
		t.Errorf("combined failure should be marked as reported, got %v", err)
	}
}

func TestReported_HostErrors(t *testing.T) {
	useConfig(t)

	_, err := execute(t, "scan", filepath.Join(t.TempDir(), "absent.go"))
	if err == nil || Reported(err) {
		t.Errorf("open failures have no notice and must be printed, got %v", err)
	}
	if Reported(nil) {
		t.Error("nil is not a reported error")
	}
}
