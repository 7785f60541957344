// Package universal implements the linear congruential universal family
// of hash functions
//
//	h(x) = ((a·x + b) mod p) mod m
//
// with a drawn from [1, p-1] and b from [0, p-1]. For any two distinct keys
// below p, a freshly drawn member collides with probability at most 1/m.
package universal

import (
	"fmt"
	"math/bits"

	"github.com/optable/dphash/internal/hash"
)

const (
	Blake3  = hash.Blake3
	Murmur3 = hash.Murmur3
	Metro   = hash.Metro
	Highway = hash.Highway
	SipHash = hash.SipHash
)

var ErrUnknownSource = hash.ErrUnknownSource

// ParseSource maps the name of an entropy source to its type
func ParseSource(name string) (int, error) {
	switch name {
	case "blake3":
		return Blake3, nil
	case "murmur3":
		return Murmur3, nil
	case "metro":
		return Metro, nil
	case "highway":
		return Highway, nil
	case "siphash":
		return SipHash, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
}

// Func is one member of the family. It is a value type, two Funcs with
// the same parameters hash identically.
type Func struct {
	A, B uint64
	// M is the number of slots the function maps onto
	M uint64
	// P is the prime of the family
	P uint64
}

// Hash returns ((A·x + B) mod P) mod M. The product is carried in 128 bits
// so any 64-bit prime is safe.
func (f Func) Hash(x uint64) uint64 {
	hi, lo := bits.Mul64(f.A, x)
	lo, carry := bits.Add64(lo, f.B, 0)
	hi += carry

	return bits.Rem64(hi, lo, f.P) % f.M
}

func (f Func) String() string {
	return fmt.Sprintf("a = %d, b = %d, m = %d", f.A, f.B, f.M)
}

// Factory samples fresh members of the family. Every call draws
// new parameters independently of the previous ones.
type Factory interface {
	Generate(modulus uint64) Func
}

// family is the Factory drawing its parameters from a hash.Source
type family struct {
	prime uint64
	src   hash.Source
}

// NewFactory returns a Factory over prime whose draws come from a
// source of type t. A nil seed is replaced by a random salt, otherwise
// seed must be hash.SaltLength bytes and the draws are reproducible.
func NewFactory(prime uint64, t int, seed []byte) (Factory, error) {
	if prime < 2 {
		return nil, fmt.Errorf("prime %d is too small for a hash family", prime)
	}

	if seed == nil {
		s, err := hash.MakeSalt()
		if err != nil {
			return nil, err
		}
		seed = s
	}

	src, err := hash.New(t, seed)
	if err != nil {
		return nil, err
	}

	return &family{prime: prime, src: src}, nil
}

// Generate draws a member mapping onto modulus slots
func (f *family) Generate(modulus uint64) Func {
	if modulus == 0 {
		panic(fmt.Errorf("cannot generate a hash function onto 0 slots"))
	}

	return Func{
		A: 1 + hash.Uniform(f.src, f.prime-1),
		B: hash.Uniform(f.src, f.prime),
		M: modulus,
		P: f.prime,
	}
}
