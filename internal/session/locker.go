package session

import "sync"

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Locker serializes work per visitor so that one visitor's events are
// handled one at a time, in arrival order at the lock
type Locker struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

// NewLocker creates a Locker
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*lockEntry)}
}

// Lock blocks until the visitor's lock is held and returns its release func
func (l *Locker) Lock(visitorID string) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.locks[visitorID]
	if !ok {
		entry = &lockEntry{}
		l.locks[visitorID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, visitorID)
		}
		l.mu.Unlock()
	}
}

// Held returns how many visitors currently have a lock held or awaited
func (l *Locker) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
