package dphash

import "errors"

var (
	// ErrInvalidKey is returned for keys outside [0, universeSize)
	ErrInvalidKey = errors.New("key is outside the universe")
	// ErrExhausted is returned when a retry loop ran SeekLimit draws
	// without finding an acceptable hash function. It points at a factory
	// that is not uniform, or at a growth scale too large for the space bound.
	ErrExhausted = errors.New("hash function draws exhausted")
	// ErrDegenerate is returned by New for unusable parameters
	ErrDegenerate = errors.New("degenerate table parameters")
)
