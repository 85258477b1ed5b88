package ngram

import "strings"

// Aggregator owns the running counters of the three orders. Memory grows
// with the number of distinct (context, next) pairs seen, never with the
// number of sequences ingested.
//
// An Aggregator is not safe for concurrent use. Parallel ingestion gives each
// worker its own Aggregator and combines them with Merge.
type Aggregator struct {
	counts    [MaxOrder]Counts
	sequences int64
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	a := &Aggregator{}
	for i := range a.counts {
		a.counts[i] = make(Counts)
	}
	return a
}

// Ingest records every transition of seq. For the 1-indexed position i the
// order-1 context is recorded when i >= 2, order-2 when i >= 3 and order-3
// when i >= 4.
//
// The sequence is validated before any counter moves, so a rejected call
// leaves the aggregator exactly as it was.
func (a *Aggregator) Ingest(seq []string) error {
	if len(seq) == 0 {
		return ErrMalformedSequence
	}
	for i, tok := range seq {
		if tok == "" {
			return ErrMalformedSequence
		}
		if strings.Contains(tok, Delimiter) {
			return &DelimiterCollisionError{Token: tok, Position: i + 1}
		}
	}

	for i := 1; i < len(seq); i++ {
		next := seq[i]
		for _, order := range Orders {
			n := int(order)
			if i < n {
				break
			}
			a.add(order, ContextKey(seq[i-n:i]...), next, 1)
		}
	}
	a.sequences++
	return nil
}

func (a *Aggregator) add(order Order, key, next string, n int64) {
	table := a.counts[order.index()]
	row, ok := table[key]
	if !ok {
		row = make(map[string]int64)
		table[key] = row
	}
	row[next] += n
}

// Merge adds every count of other into a. other is left unchanged. Since
// counts are summed per (order, context, next) triple the operation is
// associative and commutative.
func (a *Aggregator) Merge(other *Aggregator) {
	if other == nil {
		return
	}
	if other == a {
		other = a.Clone()
	}
	for _, order := range Orders {
		for key, next := range other.counts[order.index()] {
			for tok, n := range next {
				a.add(order, key, tok, n)
			}
		}
	}
	a.sequences += other.sequences
}

// Clone returns a deep copy of a.
func (a *Aggregator) Clone() *Aggregator {
	out := &Aggregator{sequences: a.sequences}
	for i := range a.counts {
		out.counts[i] = a.counts[i].clone()
	}
	return out
}

// Counts returns a copy of the counters of one order. Invalid orders yield
// nil.
func (a *Aggregator) Counts(order Order) Counts {
	if !order.Valid() {
		return nil
	}
	return a.counts[order.index()].clone()
}

// ContextTotals returns the raw observation count of every context of one
// order.
func (a *Aggregator) ContextTotals(order Order) Metadata {
	if !order.Valid() {
		return nil
	}
	return a.counts[order.index()].Totals()
}

// Len returns the number of distinct contexts seen at order.
func (a *Aggregator) Len(order Order) int {
	if !order.Valid() {
		return 0
	}
	return len(a.counts[order.index()])
}

// Sequences returns how many sequences were accepted, merged shards included.
func (a *Aggregator) Sequences() int64 {
	return a.sequences
}

// counters exposes the live maps to the finalizer, which only reads them.
func (a *Aggregator) counters(order Order) Counts {
	return a.counts[order.index()]
}
