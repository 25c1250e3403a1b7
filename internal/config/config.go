package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	perrors "github.com/zhubert/secops/internal/errors"
)

// Sink names accepted by DefaultSink.
const (
	SinkThreads   = "threads"
	SinkClipboard = "clipboard"
)

// Config holds the application configuration
type Config struct {
	Threads        []Thread `json:"threads"`
	ActiveThreadID string   `json:"active_thread_id,omitempty"`  // Thread that receives scans
	FocusedThread  string   `json:"focused_thread_id,omitempty"` // Thread last brought to the foreground

	AgentDisabled        bool   `json:"agent_disabled,omitempty"`        // Turns the conversation capability off
	NotificationsEnabled bool   `json:"notifications_enabled,omitempty"` // Desktop notifications for scan outcomes
	DefaultSink          string `json:"default_sink,omitempty"`          // "threads" or "clipboard"
	Theme                string `json:"theme,omitempty"`                 // Chroma style for payload previews

	mu       sync.RWMutex
	filePath string
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".secops"), nil
}

// configPath returns the path to the config file
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// New returns an empty config that saves to path.
func New(path string) *Config {
	return &Config{
		Threads:  []Thread{},
		filePath: path,
	}
}

// Load reads the config from ~/.secops/config.json, or returns an empty one
// if the file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path.
func LoadFrom(path string) (*Config, error) {
	cfg := New(path)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, perrors.ConfigLoadFailed(path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, perrors.ConfigLoadFailed(path, err)
	}
	if cfg.Threads == nil {
		cfg.Threads = []Thread{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the config is internally consistent.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]bool)
	for _, t := range c.Threads {
		if t.ID == "" {
			return perrors.ConfigInvalid("thread with empty ID found")
		}
		if seen[t.ID] {
			return perrors.ConfigInvalid(fmt.Sprintf("duplicate thread ID: %s", t.ID))
		}
		seen[t.ID] = true
	}

	if c.ActiveThreadID != "" && !seen[c.ActiveThreadID] {
		return perrors.ConfigInvalid(fmt.Sprintf("active thread %s does not exist", c.ActiveThreadID))
	}

	switch c.DefaultSink {
	case "", SinkThreads, SinkClipboard:
	default:
		return perrors.ConfigInvalid(fmt.Sprintf("unknown default sink %q", c.DefaultSink))
	}
	return nil
}

// Save writes the config to its file, creating the directory if needed.
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return perrors.ConfigSaveFailed(c.filePath, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return perrors.ConfigSaveFailed(c.filePath, err)
	}

	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return perrors.ConfigSaveFailed(c.filePath, err)
	}
	return nil
}

// FilePath returns the file the config saves to.
func (c *Config) FilePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filePath
}

// SetFilePath changes the file the config saves to.
func (c *Config) SetFilePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filePath = path
}

// AgentAvailable reports whether the conversation capability is enabled.
func (c *Config) AgentAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.AgentDisabled
}

// SetAgentDisabled turns the conversation capability on or off.
func (c *Config) SetAgentDisabled(disabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.AgentDisabled = disabled
}

// GetNotificationsEnabled returns whether desktop notifications are enabled
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotificationsEnabled sets whether desktop notifications are enabled
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}

// GetDefaultSink returns the configured sink, defaulting to threads.
func (c *Config) GetDefaultSink() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.DefaultSink == "" {
		return SinkThreads
	}
	return c.DefaultSink
}

// GetTheme returns the preview style name.
func (c *Config) GetTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Theme
}
