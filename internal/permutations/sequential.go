package permutations

// sequential is the identity permutation, keys come in increasing order
type sequential int64

func NewSequential(n int64) (sequential, error) {
	return sequential(n), nil
}

// Shuffle returns i
func (sequential) Shuffle(i int64) int64 {
	return i
}
