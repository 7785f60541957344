package dphash

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/optable/dphash/pkg/universal"
)

// entry is one stored key. Only the tombstone changes after creation, a
// new payload for the same key replaces the whole entry in its slot.
type entry struct {
	key     uint64
	payload interface{}
	deleted bool
}

// bucket is a second level table whose function h is injective on the
// live keys it holds. A nil slot was never occupied since the last build,
// a tombstoned one still holds its dead entry until the next build.
type bucket struct {
	h universal.Func
	// load counts the members placed since the bucket was last built,
	// tombstoned ones included
	load int
	// capacity is the number of keys the bucket is sized for,
	// size = 2·capacity·(capacity-1) its number of slots
	capacity int
	size     int
	// slots is nil for a bucket that never received a key
	slots  []*entry
	policy GrowthPolicy
}

// slot returns the slot key hashes to, -1 if the bucket has no slots
func (b *bucket) slot(key uint64) int {
	if b.slots == nil {
		return -1
	}
	return int(b.h.Hash(key))
}

// find returns the entry stored for key, tombstoned or not
func (b *bucket) find(key uint64) *entry {
	s := b.slot(key)
	if s < 0 {
		return nil
	}
	if e := b.slots[s]; e != nil && e.key == key {
		return e
	}
	return nil
}

// live appends the entries of b that are not tombstoned to l
func (b *bucket) live(l []*entry) []*entry {
	for _, e := range b.slots {
		if e != nil && !e.deleted {
			l = append(l, e)
		}
	}
	return l
}

// seekInjective draws second level functions onto size slots until one
// sends every entry to a distinct slot, and returns it with the filled
// slots. It gives up with ErrExhausted after t.limit draws.
func (t *Table) seekInjective(entries []*entry, size int) (universal.Func, []*entry, error) {
	taken := bitset.New(uint(size))
	for i := 0; i < t.limit; i++ {
		h := t.factory.Generate(uint64(size))
		t.stats.Draws++
		if !injective(h, entries, taken) {
			continue
		}

		slots := make([]*entry, size)
		for _, e := range entries {
			slots[h.Hash(e.key)] = e
		}
		return h, slots, nil
	}

	return universal.Func{}, nil, fmt.Errorf("%w: no injective placement of %d keys onto %d slots in %d draws",
		ErrExhausted, len(entries), size, t.limit)
}

// injective reports whether h maps no two entries to the same slot
func injective(h universal.Func, entries []*entry, taken *bitset.BitSet) bool {
	taken.ClearAll()
	for _, e := range entries {
		s := uint(h.Hash(e.key))
		if taken.Test(s) {
			return false
		}
		taken.Set(s)
	}
	return true
}

// reseed rebuilds b over its current slots around its live entries and e.
// Tombstones are dropped on the way. b is untouched on failure.
func (t *Table) reseed(b *bucket, e *entry) error {
	l := append(b.live(nil), e)
	h, slots, err := t.seekInjective(l, b.size)
	if err != nil {
		t.logger.Error(err, "failed to re-seed bucket", "keys", len(l), "slots", b.size)
		return err
	}

	b.h, b.slots, b.load = h, slots, len(l)
	t.live++
	t.stats.Reseeds++
	t.logger.V(2).Info("re-seeded bucket", "keys", len(l), "slots", b.size)
	return nil
}

// grow resizes b for one more key than its capacity and rebuilds it around
// its live entries and e. When the larger bucket would break the space
// bound the whole table is rehashed with e instead.
func (t *Table) grow(b *bucket, e *entry) error {
	capacity := normalize(max(b.policy.NextCapacity(b.capacity), b.load+1))
	size := slotsFor(capacity)
	space := t.space - b.size + size
	if !t.verify(space) {
		t.logger.V(2).Info("bucket growth breaks the space bound, rehashing",
			"capacity", capacity, "slots", space, "bound", t.bound(t.m, t.sm))
		return t.rehash(e)
	}

	l := append(b.live(nil), e)
	h, slots, err := t.seekInjective(l, size)
	if err != nil {
		t.logger.Error(err, "failed to grow bucket", "keys", len(l), "capacity", capacity, "slots", size)
		return err
	}

	b.h, b.slots, b.load = h, slots, len(l)
	b.capacity, b.size = capacity, size
	t.space = space
	t.live++
	t.stats.Growths++
	t.logger.V(2).Info("grew bucket", "keys", len(l), "capacity", capacity, "slots", size)
	return nil
}
