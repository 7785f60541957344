package dphash

import (
	"fmt"

	"github.com/optable/dphash/pkg/universal"
)

// rehash rebuilds the table around its live entries plus pending, which
// replaces a live entry with the same key. The new top level and buckets
// are installed only once every bucket is built, on error the table is
// left as it was.
func (t *Table) rehash(pending *entry) error {
	l := make([]*entry, 0, t.live+1)
	for i := range t.buckets {
		for _, e := range t.buckets[i].slots {
			if e == nil || e.deleted || (pending != nil && e.key == pending.key) {
				continue
			}
			l = append(l, e)
		}
	}
	if pending != nil {
		l = append(l, pending)
	}

	m := (1 + t.c) * max(len(l), minKeys)
	sm := 2 * m
	top, buckets, sub, space, err := t.partition(l, m, sm)
	if err != nil {
		t.logger.Error(err, "failed to find a top level function", "keys", len(l), "buckets", sm)
		return err
	}

	for j := range buckets {
		if len(sub[j]) == 0 {
			continue
		}
		h, slots, err := t.seekInjective(sub[j], buckets[j].size)
		if err != nil {
			t.logger.Error(err, "failed to build bucket", "bucket", j, "keys", len(sub[j]))
			return err
		}
		buckets[j].h, buckets[j].slots = h, slots
	}

	t.top, t.buckets = top, buckets
	t.m, t.sm, t.space = m, sm, space
	t.count, t.live = len(l), len(l)
	t.stats.Rehashes++
	t.logger.V(1).Info("rehashed table", "keys", len(l), "M", m, "buckets", sm, "slots", space, "bound", t.bound(m, sm))
	return nil
}

// partition draws top level functions onto sm buckets until the buckets,
// sized by the growth policy for the keys they receive, fit the space
// bound of a table sized for m keys. It returns the accepted function, the
// sized but unfilled buckets, the keys of every bucket and the total space.
func (t *Table) partition(l []*entry, m, sm int) (universal.Func, []bucket, [][]*entry, int, error) {
	bound := t.bound(m, sm)
	counts := make([]int, sm)
	capacities := make([]int, sm)

	for i := 0; i < t.limit; i++ {
		top := t.factory.Generate(uint64(sm))
		t.stats.Draws++

		for j := range counts {
			counts[j] = 0
		}
		for _, e := range l {
			counts[top.Hash(e.key)]++
		}

		policy := t.policy.Fork()
		space := 0
		for j, n := range counts {
			capacities[j] = 0
			if n > 0 {
				capacities[j] = normalize(max(policy.Capacity(n), n))
				space += slotsFor(capacities[j])
			}
			if space > bound {
				break
			}
		}
		if space > bound {
			continue
		}

		buckets := make([]bucket, sm)
		sub := make([][]*entry, sm)
		for j := range buckets {
			buckets[j] = bucket{
				load:     counts[j],
				capacity: capacities[j],
				size:     slotsFor(capacities[j]),
				policy:   t.policy.Fork(),
			}
			if counts[j] > 0 {
				sub[j] = make([]*entry, 0, counts[j])
			}
		}
		for _, e := range l {
			j := top.Hash(e.key)
			sub[j] = append(sub[j], e)
		}
		return top, buckets, sub, space, nil
	}

	return universal.Func{}, nil, nil, 0, fmt.Errorf("%w: no top level function onto %d buckets keeps %d keys within %d slots in %d draws",
		ErrExhausted, sm, len(l), bound, t.limit)
}
