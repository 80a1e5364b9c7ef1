// Package keylock provides per-key mutual exclusion so concurrent mutations
// of the same attitude record or interaction never interleave.
package keylock

import "sync"

// KeyLock hands out one mutex per string key.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New returns an empty KeyLock.
func New() *KeyLock {
	return &KeyLock{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *KeyLock) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
