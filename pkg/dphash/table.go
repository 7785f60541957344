// Package dphash implements dynamic perfect hashing (Dietzfelbinger et al.)
// over the integer universe [0, universeSize).
//
// A top level function from a universal family splits the keys into
// buckets, and every bucket holds its keys in a second level table whose
// own function is injective on them. Lookups cost two hash evaluations and
// one comparison in the worst case. Inserts and deletes are amortized O(1):
// a bucket outgrowing its capacity is regrown locally, and after M updates,
// or when a bucket cannot grow within the space bound, the whole table is
// rebuilt from its live keys with fresh random functions.
//
// A Table is not safe for concurrent use, wrap it in a Locked for that.
package dphash

import (
	"fmt"
	"math"
	"math/big"

	"github.com/go-logr/logr"
	"github.com/optable/dphash/pkg/universal"
)

const (
	// SeekLimit is the number of draws a retry loop makes before giving
	// up with ErrExhausted. Every loop succeeds within a few draws in
	// expectation, reaching the limit means the factory is broken.
	SeekLimit = 1 << 12
	// DefaultGrowthConstant is c in M = (1+c)·max(n, 4)
	DefaultGrowthConstant = 2

	minKeys = 4
)

// Table is a dynamic perfect hash table. The zero value is not usable,
// create tables with New.
type Table struct {
	universe uint64
	prime    uint64
	c        int
	factory  universal.Factory
	policy   GrowthPolicy
	bound    func(m, sm int) int
	limit    int
	logger   logr.Logger

	top     universal.Func
	buckets []bucket
	// count is the number of updates since the last rehash, m the number
	// of keys the top level is sized for and sm = 2·m its bucket count
	count int
	m, sm int
	// space is the total number of second level slots
	space int
	live  int
	stats Stats
}

// New returns an empty table over keys in [0, universeSize). prime must be
// a prime no smaller than universeSize and growthScale the factor buckets
// grow by, greater than 1 and typically in [1.5, 2.5].
func New(universeSize, prime uint64, growthScale float64, opts ...Option) (*Table, error) {
	o := options{
		source: universal.Blake3,
		c:      DefaultGrowthConstant,
		logger: logr.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	switch {
	case universeSize == 0:
		return nil, fmt.Errorf("%w: empty universe", ErrDegenerate)
	case prime < universeSize:
		return nil, fmt.Errorf("%w: prime %d is smaller than the universe size %d", ErrDegenerate, prime, universeSize)
	case !new(big.Int).SetUint64(prime).ProbablyPrime(20):
		return nil, fmt.Errorf("%w: %d is not prime", ErrDegenerate, prime)
	case math.IsNaN(growthScale) || math.IsInf(growthScale, 0) || growthScale <= 1:
		return nil, fmt.Errorf("%w: growth scale %v must be greater than 1", ErrDegenerate, growthScale)
	case o.c < 1:
		return nil, fmt.Errorf("%w: growth constant %d must be positive", ErrDegenerate, o.c)
	}

	t := &Table{
		universe: universeSize,
		prime:    prime,
		c:        o.c,
		factory:  o.factory,
		policy:   o.policy,
		bound:    spaceBound,
		limit:    SeekLimit,
		logger:   o.logger,
	}
	if o.legacy {
		t.bound = legacySpaceBound
	}
	if t.policy == nil {
		t.policy = FixedScale(growthScale)
	}
	// the smallest table must be able to hold a bucket of one key
	if c, m := normalize(t.policy.Fork().Capacity(1)), (1+t.c)*minKeys; slotsFor(c) > t.bound(m, 2*m) {
		return nil, fmt.Errorf("%w: a bucket of one key sized for %d keys takes %d slots, over the bound %d of an empty table",
			ErrDegenerate, c, slotsFor(c), t.bound(m, 2*m))
	}
	if t.factory == nil {
		f, err := universal.NewFactory(prime, o.source, o.seed)
		if err != nil {
			return nil, err
		}
		t.factory = f
	}

	if err := t.rehash(nil); err != nil {
		return nil, err
	}
	return t, nil
}

// Insert stores key with payload. Inserting a key that is already present
// replaces its payload, inserting a deleted key revives it in place with
// the new payload.
func (t *Table) Insert(key uint64, payload interface{}) error {
	if key >= t.universe {
		return fmt.Errorf("%w: %d is not in [0, %d)", ErrInvalidKey, key, t.universe)
	}

	t.count++
	if err := t.insert(&entry{key: key, payload: payload}); err != nil {
		t.count--
		return err
	}
	return nil
}

func (t *Table) insert(e *entry) error {
	if t.count > t.m {
		return t.rehash(e)
	}

	b := &t.buckets[t.top.Hash(e.key)]
	s := b.slot(e.key)
	if s >= 0 && b.slots[s] != nil && b.slots[s].key == e.key {
		if b.slots[s].deleted {
			t.live++
		}
		b.slots[s] = e
		return nil
	}

	if b.load < b.capacity {
		if b.slots[s] == nil {
			b.slots[s] = e
			b.load++
			t.live++
			return nil
		}
		return t.reseed(b, e)
	}

	return t.grow(b, e)
}

// Delete removes key. Its slot is only reclaimed by the next rebuild of
// its bucket. Deleting an absent key is a no-op. An error comes from the
// periodic rehash, the key is deleted regardless.
func (t *Table) Delete(key uint64) error {
	if key >= t.universe {
		return fmt.Errorf("%w: %d is not in [0, %d)", ErrInvalidKey, key, t.universe)
	}

	t.count++
	if e := t.buckets[t.top.Hash(key)].find(key); e != nil && !e.deleted {
		e.deleted = true
		t.live--
	}

	if t.count >= t.m {
		return t.rehash(nil)
	}
	return nil
}

// Lookup returns true if key is stored in the table
func (t *Table) Lookup(key uint64) bool {
	_, ok := t.Get(key)
	return ok
}

// Get returns the payload stored with key
func (t *Table) Get(key uint64) (interface{}, bool) {
	if key >= t.universe {
		return nil, false
	}

	e := t.buckets[t.top.Hash(key)].find(key)
	if e == nil || e.deleted {
		return nil, false
	}
	return e.payload, true
}

// Len returns the number of keys stored in the table
func (t *Table) Len() int {
	return t.live
}

// Range calls fn for every stored key and its payload, in no particular
// order, until fn returns false. fn must not modify the table.
func (t *Table) Range(fn func(key uint64, payload interface{}) bool) {
	for i := range t.buckets {
		for _, e := range t.buckets[i].slots {
			if e == nil || e.deleted {
				continue
			}
			if !fn(e.key, e.payload) {
				return
			}
		}
	}
}

// Rehash rebuilds the whole table from its live keys, reclaiming the slots
// of deleted keys.
func (t *Table) Rehash() error {
	return t.rehash(nil)
}
