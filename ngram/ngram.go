// Package ngram builds order 1-3 next-token frequency tables over a stream of
// token sequences and finalizes them into immutable probability tables.
//
// An order-n table maps a context of the n preceding tokens to the tokens
// observed right after it. Contexts are keyed by joining their tokens with
// Delimiter, so tokens themselves must never contain it.
package ngram

import (
	"errors"
	"fmt"
	"strings"
)

// Order is the number of preceding tokens a context holds.
type Order int

const (
	Unigram Order = 1
	Bigram  Order = 2
	Trigram Order = 3

	// MaxOrder is the longest context tracked.
	MaxOrder = 3
)

// Orders lists every supported order, lowest first.
var Orders = []Order{Unigram, Bigram, Trigram}

// Delimiter separates tokens inside a context key.
const Delimiter = ","

var (
	// ErrMalformedSequence is returned by Ingest for empty sequences or
	// sequences holding an empty token. It is not fatal: the aggregator is
	// left untouched and callers may keep ingesting.
	ErrMalformedSequence = errors.New("malformed sequence")

	// ErrDelimiterCollision is matched by a DelimiterCollisionError.
	ErrDelimiterCollision = errors.New("token contains context delimiter")

	// ErrInvalidOrder is returned for orders outside [1, MaxOrder].
	ErrInvalidOrder = errors.New("invalid n-gram order")
)

// DelimiterCollisionError reports the first offending token of a rejected
// sequence.
type DelimiterCollisionError struct {
	Token    string
	Position int
}

func (e *DelimiterCollisionError) Error() string {
	return fmt.Sprintf("token %q at position %d contains reserved delimiter %q", e.Token, e.Position, Delimiter)
}

func (e *DelimiterCollisionError) Is(target error) bool {
	return target == ErrDelimiterCollision
}

// Valid reports whether o is one of the tracked orders.
func (o Order) Valid() bool {
	return o >= Unigram && o <= MaxOrder
}

// String returns the name used by the persisted artifact.
func (o Order) String() string {
	switch o {
	case Unigram:
		return "unigram"
	case Bigram:
		return "bigram"
	case Trigram:
		return "trigram"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

func (o Order) index() int {
	return int(o) - 1
}

// ContextKey joins tokens into the lookup key of a context. A single token
// is its own key.
func ContextKey(tokens ...string) string {
	return strings.Join(tokens, Delimiter)
}

// SplitKey is the inverse of ContextKey.
func SplitKey(key string) []string {
	return strings.Split(key, Delimiter)
}

// Counts maps a context key to next-token counts.
type Counts map[string]map[string]int64

// Table maps a context key to a next-token probability distribution.
type Table map[string]map[string]float64

// Metadata maps a context key to the raw number of observations of that
// context. It drives backoff decisions at prediction time.
type Metadata map[string]int64

// Totals sums the next-token counts of every context.
func (c Counts) Totals() Metadata {
	totals := make(Metadata, len(c))
	for key, next := range c {
		var sum int64
		for _, n := range next {
			sum += n
		}
		totals[key] = sum
	}
	return totals
}

func (c Counts) clone() Counts {
	out := make(Counts, len(c))
	for key, next := range c {
		cp := make(map[string]int64, len(next))
		for tok, n := range next {
			cp[tok] = n
		}
		out[key] = cp
	}
	return out
}
