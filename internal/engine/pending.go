package engine

import (
	"sync"
	"time"
)

// WizardJoin is the multi-step join flow: pick accounts, then roles.
const WizardJoin = "join"

// PendingSelection carries the partial choices of an in-progress wizard.
// It only ever holds data the user has already picked.
type PendingSelection struct {
	AccountIDs []uint
	Roles      []string
	Streaming  bool
	Note       string
}

type pendingKey struct {
	UserID    uint
	SessionID uint
	Kind      string
}

type pendingEntry struct {
	sel      PendingSelection
	deadline time.Time
}

// PendingStore holds short-lived wizard state keyed by (user, session, kind).
// Entries expire after a fixed period of inactivity, checked on access and by
// a periodic sweep. Starting a second wizard for the same key replaces the
// first (last write wins). Completed or cancelled wizards are deleted
// immediately by the caller.
type PendingStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[pendingKey]*pendingEntry
}

// Pending is the store used by the HTTP layer for join wizards.
var Pending = NewPendingStore(10 * time.Minute)

// NewPendingStore creates a store whose entries expire after ttl of inactivity.
func NewPendingStore(ttl time.Duration) *PendingStore {
	return &PendingStore{
		ttl:     ttl,
		entries: make(map[pendingKey]*pendingEntry),
	}
}

// Put stores sel for the key, replacing any previous wizard for the same key.
func (s *PendingStore) Put(userID, sessionID uint, kind string, sel PendingSelection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[pendingKey{userID, sessionID, kind}] = &pendingEntry{
		sel:      sel,
		deadline: time.Now().Add(s.ttl),
	}
}

// Get returns the pending selection for the key, if present and not expired.
// A hit counts as activity and pushes the deadline out.
func (s *PendingStore) Get(userID, sessionID uint, kind string) (PendingSelection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pendingKey{userID, sessionID, kind}
	entry, ok := s.entries[key]
	if !ok {
		return PendingSelection{}, false
	}
	if time.Now().After(entry.deadline) {
		delete(s.entries, key)
		return PendingSelection{}, false
	}
	entry.deadline = time.Now().Add(s.ttl)
	return entry.sel, true
}

// Delete discards the wizard for the key, if any.
func (s *PendingStore) Delete(userID, sessionID uint, kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, pendingKey{userID, sessionID, kind})
}

// Sweep drops every expired entry and returns how many were removed.
func (s *PendingStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, entry := range s.entries {
		if now.After(entry.deadline) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until the returned stop
// function is called.
func (s *PendingStore) StartSweeper(interval time.Duration) (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}
