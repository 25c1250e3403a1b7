package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	perrors "github.com/zhubert/secops/internal/errors"
)

func testThread(id string) Thread {
	return Thread{ID: id, Name: "thread " + id, CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func TestConfig_AddThread(t *testing.T) {
	cfg := New("")

	if !cfg.AddThread(testThread("a")) {
		t.Error("AddThread should return true for new thread")
	}
	if cfg.AddThread(testThread("a")) {
		t.Error("AddThread should return false for duplicate thread")
	}
	if !cfg.AddThread(testThread("b")) {
		t.Error("AddThread should return true for another thread")
	}
	if got := len(cfg.GetThreads()); got != 2 {
		t.Errorf("Expected 2 threads, got %d", got)
	}
}

func TestConfig_RemoveThread_ClearsReferences(t *testing.T) {
	cfg := New("")
	cfg.AddThread(testThread("a"))
	cfg.AddThread(testThread("b"))
	cfg.SetActiveThread("a")
	cfg.SetFocusedThread("a")

	if !cfg.RemoveThread("a") {
		t.Fatal("RemoveThread should return true for existing thread")
	}
	if cfg.RemoveThread("a") {
		t.Error("RemoveThread should return false for missing thread")
	}
	if cfg.GetActiveThreadID() != "" {
		t.Errorf("active thread = %q, want empty", cfg.GetActiveThreadID())
	}
	if cfg.GetFocusedThreadID() != "" {
		t.Errorf("focused thread = %q, want empty", cfg.GetFocusedThreadID())
	}
}

func TestConfig_SetActiveThread(t *testing.T) {
	cfg := New("")
	cfg.AddThread(testThread("a"))

	if cfg.SetActiveThread("missing") {
		t.Error("SetActiveThread should fail for unknown thread")
	}
	if !cfg.SetActiveThread("a") {
		t.Error("SetActiveThread should succeed for existing thread")
	}
	if cfg.GetActiveThreadID() != "a" {
		t.Errorf("active thread = %q, want %q", cfg.GetActiveThreadID(), "a")
	}
}

func TestConfig_Drafts(t *testing.T) {
	cfg := New("")
	cfg.AddThread(testThread("a"))

	if cfg.DraftLen("a") != 0 {
		t.Errorf("new thread draft length = %d, want 0", cfg.DraftLen("a"))
	}
	if !cfg.AppendDraft("a", "hello") || !cfg.AppendDraft("a", " world") {
		t.Fatal("AppendDraft should succeed for existing thread")
	}
	if cfg.AppendDraft("missing", "x") {
		t.Error("AppendDraft should fail for unknown thread")
	}
	if got := cfg.GetThread("a").Draft; got != "hello world" {
		t.Errorf("draft = %q, want %q", got, "hello world")
	}
	if cfg.DraftLen("a") != len("hello world") {
		t.Errorf("DraftLen = %d", cfg.DraftLen("a"))
	}
	if !cfg.ClearDraft("a") || cfg.DraftLen("a") != 0 {
		t.Error("ClearDraft should empty the draft")
	}
}

func TestConfig_GetThreadReturnsCopy(t *testing.T) {
	cfg := New("")
	cfg.AddThread(testThread("a"))

	got := cfg.GetThread("a")
	got.Draft = "mutated"

	if cfg.GetThread("a").Draft != "" {
		t.Error("GetThread should return a copy")
	}
	if cfg.GetThread("missing") != nil {
		t.Error("GetThread should return nil for unknown thread")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  &Config{Threads: []Thread{testThread("a")}, ActiveThreadID: "a", DefaultSink: SinkClipboard},
		},
		{
			name:    "empty id",
			cfg:     &Config{Threads: []Thread{{Name: "x"}}},
			wantErr: "empty ID",
		},
		{
			name:    "duplicate id",
			cfg:     &Config{Threads: []Thread{testThread("a"), testThread("a")}},
			wantErr: "duplicate thread ID",
		},
		{
			name:    "dangling active thread",
			cfg:     &Config{Threads: []Thread{testThread("a")}, ActiveThreadID: "b"},
			wantErr: "does not exist",
		},
		{
			name:    "unknown sink",
			cfg:     &Config{DefaultSink: "pigeon"},
			wantErr: "unknown default sink",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
			if !perrors.Is(err, perrors.KindInvalid) {
				t.Errorf("Validate() error kind = %v, want %v", perrors.GetKind(err), perrors.KindInvalid)
			}
		})
	}
}

func TestConfig_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := New(path)
	cfg.AddThread(testThread("a"))
	cfg.SetActiveThread("a")
	cfg.AppendDraft("a", "draft text")
	cfg.SetNotificationsEnabled(true)
	cfg.SetAgentDisabled(true)

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if loaded.GetActiveThreadID() != "a" {
		t.Errorf("active thread = %q, want %q", loaded.GetActiveThreadID(), "a")
	}
	if loaded.GetThread("a").Draft != "draft text" {
		t.Errorf("draft = %q", loaded.GetThread("a").Draft)
	}
	if !loaded.GetNotificationsEnabled() {
		t.Error("notifications should be enabled")
	}
	if loaded.AgentAvailable() {
		t.Error("agent should be disabled")
	}
	if loaded.FilePath() != path {
		t.Errorf("FilePath() = %q, want %q", loaded.FilePath(), path)
	}
}

func TestLoadFrom_Missing(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if len(cfg.GetThreads()) != 0 {
		t.Error("missing config should have no threads")
	}
	if !cfg.AgentAvailable() {
		t.Error("agent should be available by default")
	}
	if cfg.GetDefaultSink() != SinkThreads {
		t.Errorf("default sink = %q, want %q", cfg.GetDefaultSink(), SinkThreads)
	}
}

func TestLoadFrom_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if !perrors.Is(err, perrors.KindConfig) {
		t.Errorf("LoadFrom() error = %v, want KindConfig", err)
	}
}

func TestLoad_UsesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := filepath.Join(home, ".secops", "config.json")
	if cfg.FilePath() != want {
		t.Errorf("FilePath() = %q, want %q", cfg.FilePath(), want)
	}
}

func TestSave_Error(t *testing.T) {
	cfg := New("/nonexistent/directory/that/cannot/exist\x00/config.json")
	if err := cfg.Save(); !perrors.Is(err, perrors.KindConfig) {
		t.Errorf("Save() error = %v, want KindConfig", err)
	}
}

func TestConfig_ConcurrentAccess(t *testing.T) {
	cfg := New("")
	cfg.AddThread(testThread("a"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cfg.AppendDraft("a", "x")
		}()
		go func() {
			defer wg.Done()
			_ = cfg.DraftLen("a")
			_ = cfg.GetThreads()
		}()
	}
	wg.Wait()

	if cfg.DraftLen("a") != 20 {
		t.Errorf("DraftLen = %d, want 20", cfg.DraftLen("a"))
	}
}
