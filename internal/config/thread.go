package config

import "time"

// Thread is a conversation that can receive scan payloads. Draft holds the
// text waiting in the thread's composer.
type Thread struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Draft     string    `json:"draft,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AddThread adds a thread. It returns false if the ID is already taken.
func (c *Config) AddThread(t Thread) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.Threads {
		if existing.ID == t.ID {
			return false
		}
	}
	c.Threads = append(c.Threads, t)
	return true
}

// RemoveThread removes a thread by ID, clearing the active and focused
// references if they pointed at it.
func (c *Config) RemoveThread(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, t := range c.Threads {
		if t.ID == id {
			c.Threads = append(c.Threads[:i], c.Threads[i+1:]...)
			if c.ActiveThreadID == id {
				c.ActiveThreadID = ""
			}
			if c.FocusedThread == id {
				c.FocusedThread = ""
			}
			return true
		}
	}
	return false
}

// ClearThreads removes all threads
func (c *Config) ClearThreads() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Threads = []Thread{}
	c.ActiveThreadID = ""
	c.FocusedThread = ""
}

// GetThreads returns a copy of all threads
func (c *Config) GetThreads() []Thread {
	c.mu.RLock()
	defer c.mu.RUnlock()

	threads := make([]Thread, len(c.Threads))
	copy(threads, c.Threads)
	return threads
}

// GetThread returns a copy of a thread by ID.
// Returns nil if no thread with the given ID exists.
func (c *Config) GetThread(id string) *Thread {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.Threads {
		if c.Threads[i].ID == id {
			t := c.Threads[i]
			return &t
		}
	}
	return nil
}

// GetActiveThreadID returns the ID of the active thread, or "".
func (c *Config) GetActiveThreadID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ActiveThreadID
}

// SetActiveThread makes id the active thread. It returns false if no such
// thread exists.
func (c *Config) SetActiveThread(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range c.Threads {
		if t.ID == id {
			c.ActiveThreadID = id
			return true
		}
	}
	return false
}

// GetFocusedThreadID returns the thread last brought to the foreground.
func (c *Config) GetFocusedThreadID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.FocusedThread
}

// SetFocusedThread records the thread brought to the foreground.
func (c *Config) SetFocusedThread(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.FocusedThread = id
}

// DraftLen returns the byte length of a thread's draft.
func (c *Config) DraftLen(id string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, t := range c.Threads {
		if t.ID == id {
			return len(t.Draft)
		}
	}
	return 0
}

// AppendDraft appends text to the end of a thread's draft.
func (c *Config) AppendDraft(id, text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.Threads {
		if c.Threads[i].ID == id {
			c.Threads[i].Draft += text
			return true
		}
	}
	return false
}

// ClearDraft empties a thread's draft.
func (c *Config) ClearDraft(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.Threads {
		if c.Threads[i].ID == id {
			c.Threads[i].Draft = ""
			return true
		}
	}
	return false
}
