package dphash

import (
	"fmt"
	"math"
)

const (
	// MinScale and MaxScale bound the growth factor of an AdaptiveScale bucket
	MinScale = 1.5
	MaxScale = 2.5
	// DefaultStep is how far an AdaptiveScale bucket moves its factor per growth
	DefaultStep = 0.25
)

// GrowthPolicy decides how many keys a bucket is sized for. The table
// never sizes a non empty bucket below its load, and bumps a capacity of
// 1 to 2 so that the bucket has slots at all.
type GrowthPolicy interface {
	// Capacity returns the capacity of a bucket rebuilt around n > 0 keys.
	Capacity(n int) int
	// NextCapacity returns the capacity a bucket grows to once its load
	// exceeds capacity.
	NextCapacity(capacity int) int
	// Fork returns the policy a freshly built bucket starts with.
	// Stateless policies return themselves.
	Fork() GrowthPolicy
}

// FixedScale grows every bucket by the same factor.
type FixedScale float64

func (s FixedScale) Capacity(n int) int {
	return scaled(float64(s), n)
}

func (s FixedScale) NextCapacity(capacity int) int {
	return scaled(float64(s), max(capacity, 1))
}

func (s FixedScale) Fork() GrowthPolicy {
	return s
}

// AdaptiveScale gives every bucket its own growth factor. The factor starts
// at the initial scale and, each time the bucket grows, moves one step
// toward MaxScale in increment mode or toward MinScale otherwise. A bucket
// rebuilt by a rehash starts over from the initial scale.
type AdaptiveScale struct {
	initial   float64
	step      float64
	increment bool
	scale     float64
}

// NewAdaptiveScale returns an AdaptiveScale starting at initial, which must
// lie in [MinScale, MaxScale], and moving by step > 0.
func NewAdaptiveScale(initial, step float64, increment bool) (*AdaptiveScale, error) {
	if math.IsNaN(initial) || initial < MinScale || initial > MaxScale {
		return nil, fmt.Errorf("%w: adaptive scale %v not in [%v, %v]", ErrDegenerate, initial, MinScale, MaxScale)
	}
	if math.IsNaN(step) || math.IsInf(step, 0) || step <= 0 {
		return nil, fmt.Errorf("%w: adaptive step %v is not positive", ErrDegenerate, step)
	}

	return &AdaptiveScale{initial: initial, step: step, increment: increment, scale: initial}, nil
}

// Scale returns the current growth factor
func (a *AdaptiveScale) Scale() float64 {
	return a.scale
}

func (a *AdaptiveScale) Capacity(n int) int {
	return scaled(a.scale, n)
}

func (a *AdaptiveScale) NextCapacity(capacity int) int {
	c := scaled(a.scale, max(capacity, 1))
	a.update()
	return c
}

func (a *AdaptiveScale) Fork() GrowthPolicy {
	return &AdaptiveScale{initial: a.initial, step: a.step, increment: a.increment, scale: a.initial}
}

func (a *AdaptiveScale) update() {
	if a.increment {
		a.scale = math.Min(a.scale+a.step, MaxScale)
	} else {
		a.scale = math.Max(a.scale-a.step, MinScale)
	}
}

// scaled returns ceil(s·n), saturating at maxCapacity. The epsilon absorbs
// float rounding, 1.1*10 evaluates to 11.000000000000002.
func scaled(s float64, n int) int {
	c := math.Ceil(s*float64(n) - 1e-9)
	if c >= maxCapacity {
		return maxCapacity
	}
	return int(c)
}

// normalize keeps a non empty bucket at a capacity in [2, maxCapacity],
// 2·1·(1-1) would leave it without slots. Capacities past maxCapacity,
// negative ones from an overflowing policy included, saturate.
func normalize(capacity int) int {
	switch {
	case capacity < 0 || capacity > maxCapacity:
		return maxCapacity
	case capacity < 2:
		return 2
	default:
		return capacity
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
