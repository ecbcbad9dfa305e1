package engine

import "sync"

// keyedMutex hands out one mutex per key so unrelated sessions (or users)
// never contend with each other. Locks are never discarded; the key space
// is bounded by the number of live entities.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[uint]*sync.Mutex)}
}

// lock acquires the mutex for id and returns its unlock func.
func (k *keyedMutex) lock(id uint) func() {
	k.mu.Lock()
	m, ok := k.locks[id]
	if !ok {
		m = &sync.Mutex{}
		k.locks[id] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// sessionLocks serializes every state-changing operation scoped to one
// session: join, leave, promote, demote, status changes. userLocks does the
// same for a user's account edits (primary switch in particular).
var (
	sessionLocks = newKeyedMutex()
	userLocks    = newKeyedMutex()
)
