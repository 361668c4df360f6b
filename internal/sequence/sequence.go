// Package sequence derives scoped, human-readable sequence numbers for
// taxpayer codes and notice numbers.
package sequence

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Width is the zero-padded width of every allocated sequence.
const Width = 5

// Next returns the next sequence for a scope given the highest identifier
// currently issued under it. The numeric suffix after the last '-' is parsed
// leniently: an empty highest identifier or an unparseable suffix counts as
// zero, so the first allocation is always "00001".
func Next(highest string) string {
	suffix := 0
	highest = strings.TrimSpace(highest)
	if highest != "" {
		raw := highest
		if idx := strings.LastIndex(highest, "-"); idx >= 0 {
			raw = highest[idx+1:]
		}
		if parsed, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && parsed > 0 {
			suffix = parsed
		}
	}
	return fmt.Sprintf("%0*d", Width, suffix+1)
}

// KeyedLock serializes allocation per scope prefix. The lookup-then-insert
// pattern behind Next is not atomic on its own; callers hold the scope lock
// across the highest-identifier lookup and the write that persists the new
// identifier.
type KeyedLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyedLock returns an empty per-key lock set.
func NewKeyedLock() *KeyedLock {
	return &KeyedLock{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the lock for key and returns its release function.
func (k *KeyedLock) Lock(key string) func() {
	k.mu.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	k.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
