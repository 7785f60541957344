package permutations

import (
	"crypto/rand"
	"math/big"
)

// naive holds the whole permutation vector
type naive struct {
	p []int64
}

// NewNaive draws a uniform permutation of [0, n) with a Fisher-Yates
// shuffle seeded from crypto/rand. It needs n words of memory.
func NewNaive(n int64) (naive, error) {
	var p = make([]int64, n)
	for i := range p {
		p[i] = int64(i)
	}

	for i := n - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(i+1))
		if err != nil {
			return naive{}, err
		}
		p[i], p[j.Int64()] = p[j.Int64()], p[i]
	}

	return naive{p: p}, nil
}

// Shuffle returns the i-th element of the permutation vector
func (k naive) Shuffle(i int64) int64 {
	return k.p[i]
}
