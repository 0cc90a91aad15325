package strategy

import "sync"

// keyLock serializes work per key. The checkpoint read-modify-write is
// not atomic at the store, so two evaluations for the same
// (account, symbol) must never interleave, even when ticks are
// multiplexed across connections.
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*sync.Mutex)}
}

// Acquire locks the mutex for key and returns it for unlocking.
func (l *keyLock) Acquire(key string) *sync.Mutex {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m
}
