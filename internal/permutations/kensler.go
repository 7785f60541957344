package permutations

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
)

// kensler orders the keys of [0, n) by the hashed permutation of
// A. Kensler, Correlated Multi-Jittered Sampling (Pixar, 2013),
// https://graphics.pixar.com/library/MultiJitteredSampling/paper.pdf
//
// The permutation is a bijection on the smallest power of two range
// covering n, walked until it lands inside [0, n). It stores no vector,
// so keys are drawn in a random order of any universe in constant memory.
type kensler struct {
	n    uint32
	seed uint32
	// mask is the power of two range minus one
	mask uint32
}

// NewKensler returns a random key order of [0, n) seeded from crypto/rand
func NewKensler(n int64) (kensler, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return kensler{}, err
	}

	return NewKenslerSeeded(n, binary.LittleEndian.Uint32(buf[:]))
}

// NewKenslerSeeded returns the key order of [0, n) picked by seed. The same
// n and seed always give the same order.
func NewKenslerSeeded(n int64, seed uint32) (kensler, error) {
	if n < 1 || n > math.MaxUint32 {
		return kensler{}, fmt.Errorf("cannot order a universe of %d keys, kensler covers [1, %d]", n, uint32(math.MaxUint32))
	}

	mask := uint32(n - 1)
	for s := uint(1); s < 32; s <<= 1 {
		mask |= mask >> s
	}

	return kensler{n: uint32(n), seed: seed, mask: mask}, nil
}

// Shuffle returns the key at position i of the order
func (k kensler) Shuffle(i int64) int64 {
	x := uint32(i)
	for {
		x = k.permute(x)
		if x < k.n {
			break
		}
	}
	return int64((x + k.seed) % k.n)
}

// permute is one round of the hashed permutation on [0, mask]
func (k kensler) permute(x uint32) uint32 {
	p, w := k.seed, k.mask

	x ^= p
	x *= 0xe170893d
	x ^= p >> 16
	x ^= (x & w) >> 4
	x ^= p >> 8
	x *= 0x0929eb3f
	x ^= p >> 23
	x ^= (x & w) >> 1
	x *= 1 | p>>27
	x *= 0x6935fa69
	x ^= (x & w) >> 11
	x *= 0x74dcb303
	x ^= (x & w) >> 2
	x *= 0x9e501cc3
	x ^= (x & w) >> 2
	x *= 0xc860a3df
	x &= w
	x ^= x >> 5
	return x
}
