// Package thread manages the conversation threads that receive scan
// payloads.
//
// Threads live in the config file. Store implements scan.ConversationSink
// on top of them: the active thread is the scan destination and its draft
// is the composer text a payload is appended to.
//
// # Racing creation
//
// CreateThread is serialised by the store and does nothing when a thread is
// already active. Two scans that both find no active thread therefore end
// up sharing the single thread the first one created; each scan appends to
// whatever thread is active when it looks again.
package thread

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhubert/secops/internal/config"
	perrors "github.com/zhubert/secops/internal/errors"
	"github.com/zhubert/secops/internal/logger"
	"github.com/zhubert/secops/internal/scan"
)

// Store is a thread-backed scan.ConversationSink.
type Store struct {
	cfg *config.Config

	// createMu serialises thread creation so concurrent scans converge.
	createMu sync.Mutex
	saveMu   sync.Mutex

	now   func() time.Time
	newID func() string
}

// NewStore wraps cfg. Changes are saved to cfg's file as they happen.
func NewStore(cfg *config.Config) *Store {
	return &Store{
		cfg:   cfg,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

var _ scan.ConversationSink = (*Store)(nil)

// CapabilityAvailable implements scan.ConversationSink.
func (s *Store) CapabilityAvailable(context.Context) bool {
	return s.cfg.AgentAvailable()
}

// ActiveThread implements scan.ConversationSink.
func (s *Store) ActiveThread(context.Context) (scan.Thread, bool) {
	id := s.cfg.GetActiveThreadID()
	if id == "" || s.cfg.GetThread(id) == nil {
		return nil, false
	}
	return &handle{store: s, id: id}, true
}

// CreateThread implements scan.ConversationSink. It is a no-op when a
// thread is already active.
func (s *Store) CreateThread(context.Context) {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	if id := s.cfg.GetActiveThreadID(); id != "" && s.cfg.GetThread(id) != nil {
		return
	}

	t, err := s.create("")
	if err != nil {
		logger.Warn("Thread: create failed: %v", err)
		return
	}
	s.cfg.SetActiveThread(t.ID)
	s.save()
}

// BringToForeground implements scan.ConversationSink.
func (s *Store) BringToForeground(context.Context) {
	id := s.cfg.GetActiveThreadID()
	if id == "" {
		return
	}
	s.cfg.SetFocusedThread(id)
	s.save()
}

// New creates a thread named name (or a generated name) and makes it active.
func (s *Store) New(name string) (config.Thread, error) {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	t, err := s.create(name)
	if err != nil {
		return config.Thread{}, err
	}
	s.cfg.SetActiveThread(t.ID)
	return t, s.persist()
}

func (s *Store) create(name string) (config.Thread, error) {
	if name == "" {
		name = fmt.Sprintf("Security review %d", len(s.cfg.GetThreads())+1)
	}
	t := config.Thread{
		ID:        s.newID(),
		Name:      name,
		CreatedAt: s.now(),
	}
	if !s.cfg.AddThread(t) {
		return config.Thread{}, perrors.E(perrors.Op("thread.Create"), perrors.KindInvalid, fmt.Sprintf("thread %s already exists", t.ID))
	}
	logger.Info("Thread: created id=%s name=%q", t.ID, t.Name)
	return t, nil
}

// Select makes the thread with the given ID active.
func (s *Store) Select(id string) error {
	if !s.cfg.SetActiveThread(id) {
		return perrors.ThreadNotFound(id)
	}
	return s.persist()
}

// Get returns the thread with the given ID, or the active thread if id is "".
func (s *Store) Get(id string) (config.Thread, error) {
	if id == "" {
		id = s.cfg.GetActiveThreadID()
	}
	t := s.cfg.GetThread(id)
	if t == nil {
		return config.Thread{}, perrors.ThreadNotFound(id)
	}
	return *t, nil
}

// List returns all threads.
func (s *Store) List() []config.Thread {
	return s.cfg.GetThreads()
}

// ActiveID returns the ID of the active thread, or "".
func (s *Store) ActiveID() string {
	return s.cfg.GetActiveThreadID()
}

// ClearDraft empties the composer of the thread with the given ID, or of the
// active thread if id is "".
func (s *Store) ClearDraft(id string) error {
	if id == "" {
		id = s.cfg.GetActiveThreadID()
	}
	if !s.cfg.ClearDraft(id) {
		return perrors.ThreadNotFound(id)
	}
	return s.persist()
}

// Clear removes every thread.
func (s *Store) Clear() error {
	s.cfg.ClearThreads()
	return s.persist()
}

// persist writes the config file. Every write goes through here so that
// writes from concurrent scans and commands never interleave.
func (s *Store) persist() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.cfg.Save()
}

// save persists and logs failures, for collaborator calls with no error
// return.
func (s *Store) save() {
	if err := s.persist(); err != nil {
		logger.Warn("Thread: save failed: %v", err)
	}
}

// handle is the scan.Thread view of a stored thread.
type handle struct {
	store *Store
	id    string
}

func (h *handle) ID() string { return h.id }

func (h *handle) Len() int { return h.store.cfg.DraftLen(h.id) }

func (h *handle) AppendText(_ context.Context, text string) {
	if !h.store.cfg.AppendDraft(h.id, text) {
		logger.Warn("Thread: append to missing thread %s", h.id)
		return
	}
	h.store.save()
}
