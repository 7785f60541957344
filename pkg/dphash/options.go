package dphash

import (
	"github.com/go-logr/logr"
	"github.com/optable/dphash/pkg/universal"
)

type options struct {
	factory universal.Factory
	source  int
	seed    []byte
	policy  GrowthPolicy
	c       int
	logger  logr.Logger
	legacy  bool
}

// Option configures a Table created by New
type Option func(*options)

// WithFactory makes the table draw its hash functions from f instead of a
// factory built from WithSource. f must draw over the prime given to New.
func WithFactory(f universal.Factory) Option {
	return func(o *options) {
		o.factory = f
	}
}

// WithSource selects the entropy source of the default factory, one of
// universal.Blake3, Murmur3, Metro, Highway or SipHash. A non nil seed of
// hash.SaltLength bytes makes every draw reproducible.
func WithSource(t int, seed []byte) Option {
	return func(o *options) {
		o.source = t
		o.seed = seed
	}
}

// WithPolicy replaces the FixedScale(growthScale) growth policy
func WithPolicy(p GrowthPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithGrowthConstant sets c in M = (1+c)·max(n, 4)
func WithGrowthConstant(c int) Option {
	return func(o *options) {
		o.c = c
	}
}

// WithLogger sets the logger, V(1) reports rehashes and V(2) bucket growth
// and re-seeds.
func WithLogger(logger logr.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLegacySpaceBound checks space against 32·(M xor 2)/SM + 4·M, the
// bound as it was historically computed, instead of 32·M²/SM + 4·M.
func WithLegacySpaceBound() Option {
	return func(o *options) {
		o.legacy = true
	}
}
