package permutations

import "fmt"

// Permutations is an interface satisfied by anything with a proper
// Shuffle method: a bijection of [0, n)
type Permutations interface {
	Shuffle(i int64) int64
}

const (
	Kensler = iota
	Naive
	Sequential
)

// New returns a permutation of type t over [0, n)
func New(t int, n int64) (Permutations, error) {
	switch t {
	case Kensler:
		return NewKensler(n)
	case Naive:
		return NewNaive(n)
	case Sequential:
		return NewSequential(n)
	default:
		return nil, fmt.Errorf("unsupported permutation type %d", t)
	}
}

// Parse maps a permutation name to its type
func Parse(name string) (int, error) {
	switch name {
	case "kensler":
		return Kensler, nil
	case "naive":
		return Naive, nil
	case "sequential":
		return Sequential, nil
	default:
		return 0, fmt.Errorf("unknown key order %q", name)
	}
}
