package dphash

import "sync"

// Locked guards a Table with a read/write mutex: lookups run concurrently,
// updates, and the rehashes they trigger, run alone. Readers observe the
// table either before or after a rehash, never in between.
type Locked struct {
	mu sync.RWMutex
	t  *Table
}

// NewLocked returns a Locked wrapping t. t must not be used directly afterwards.
func NewLocked(t *Table) *Locked {
	return &Locked{t: t}
}

func (l *Locked) Insert(key uint64, payload interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.t.Insert(key, payload)
}

func (l *Locked) Delete(key uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.t.Delete(key)
}

func (l *Locked) Rehash() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.t.Rehash()
}

func (l *Locked) Lookup(key uint64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.t.Lookup(key)
}

func (l *Locked) Get(key uint64) (interface{}, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.t.Get(key)
}

func (l *Locked) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.t.Len()
}

func (l *Locked) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.t.Stats()
}

// Range holds the read lock while calling fn, fn must not update l.
func (l *Locked) Range(fn func(key uint64, payload interface{}) bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.t.Range(fn)
}
