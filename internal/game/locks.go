// internal/game/locks.go
package game

import "sync"

// roomLocks serializes mutations per room id. Every read-modify-write against
// the store happens under the room's mutex, so a concurrent mutation can never
// overwrite another's committed change. Entries are refcounted and dropped
// when no goroutine holds or waits on them.
type roomLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newRoomLocks() *roomLocks {
	return &roomLocks{entries: make(map[string]*lockEntry)}
}

func (l *roomLocks) Lock(id string) {
	l.mu.Lock()
	entry, ok := l.entries[id]
	if !ok {
		entry = &lockEntry{}
		l.entries[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

func (l *roomLocks) Unlock(id string) {
	l.mu.Lock()
	entry, ok := l.entries[id]
	if !ok {
		l.mu.Unlock()
		panic("game: unlock of unheld room lock " + id)
	}
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, id)
	}
	l.mu.Unlock()

	entry.mu.Unlock()
}
