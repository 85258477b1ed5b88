// Package interpolation blends the three n-gram orders of a finalized model
// into a single next-token distribution.
//
// The blend is a linear interpolation whose coefficients are adjusted per
// request by a soft backoff: when the context of a higher order was observed
// fewer than Threshold times, part of its weight is handed down to the lower
// orders. Everything here is a pure function of its inputs.
package interpolation

import (
	"errors"
	"fmt"
)

// DefaultThreshold is the minimum number of observations for a context to be
// considered strong. A count strictly below it is weak.
const DefaultThreshold int64 = 3

const (
	// share of the current weight removed from a weak order
	backoffRate = 0.5
	// share of λ3's removed weight handed to λ2; the rest goes to λ1
	trigramToBigram = 0.6
)

// ErrInvalidWeights is returned by Weights.Validate.
var ErrInvalidWeights = errors.New("invalid interpolation weights")

// Weights holds the interpolation coefficients of the three orders.
type Weights struct {
	Lambda1 float64 `json:"lambda1" yaml:"lambda1"`
	Lambda2 float64 `json:"lambda2" yaml:"lambda2"`
	Lambda3 float64 `json:"lambda3" yaml:"lambda3"`
}

// DefaultWeights returns λ3=0.60, λ2=0.30, λ1=0.10.
func DefaultWeights() Weights {
	return Weights{Lambda1: 0.10, Lambda2: 0.30, Lambda3: 0.60}
}

// Sum returns λ1+λ2+λ3.
func (w Weights) Sum() float64 {
	return w.Lambda1 + w.Lambda2 + w.Lambda3
}

// Normalized scales the weights to sum to 1. A zero total yields uniform
// thirds.
func (w Weights) Normalized() Weights {
	total := w.Sum()
	if total == 0 {
		return Weights{Lambda1: 1.0 / 3, Lambda2: 1.0 / 3, Lambda3: 1.0 / 3}
	}
	return Weights{
		Lambda1: w.Lambda1 / total,
		Lambda2: w.Lambda2 / total,
		Lambda3: w.Lambda3 / total,
	}
}

// Validate rejects negative coefficients and an all-zero configuration.
func (w Weights) Validate() error {
	if w.Lambda1 < 0 || w.Lambda2 < 0 || w.Lambda3 < 0 {
		return fmt.Errorf("%w: negative coefficient in %v", ErrInvalidWeights, w)
	}
	if w.Sum() <= 0 {
		return fmt.Errorf("%w: coefficients sum to zero", ErrInvalidWeights)
	}
	return nil
}

// Lambda returns the coefficient of order n (1-3), or 0.
func (w Weights) Lambda(n int) float64 {
	switch n {
	case 1:
		return w.Lambda1
	case 2:
		return w.Lambda2
	case 3:
		return w.Lambda3
	default:
		return 0
	}
}

func (w Weights) String() string {
	return fmt.Sprintf("λ1=%.4f λ2=%.4f λ3=%.4f", w.Lambda1, w.Lambda2, w.Lambda3)
}

// ContextCounts holds the raw observation count of the order-1, order-2 and
// order-3 contexts of a progression, at index order-1. Absent contexts are 0.
type ContextCounts [3]int64

// AdjustWeights applies the soft backoff to base and renormalizes.
//
// Steps run in a fixed order:
//  1. a weak order-3 context gives up half of λ3, 60% of it to λ2 and 40% to λ1;
//  2. a weak order-2 context gives up half of the resulting λ2, all to λ1;
//  3. the weights are rescaled to sum to 1.
func AdjustWeights(base Weights, counts ContextCounts, threshold int64) Weights {
	w := base

	if counts[2] < threshold {
		removed := w.Lambda3 * backoffRate
		w.Lambda3 -= removed
		w.Lambda2 += removed * trigramToBigram
		w.Lambda1 += removed * (1 - trigramToBigram)
	}

	if counts[1] < threshold {
		removed := w.Lambda2 * backoffRate
		w.Lambda2 -= removed
		w.Lambda1 += removed
	}

	return w.Normalized()
}
