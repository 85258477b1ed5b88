package ngram

import "sort"

// Smoother turns a raw transition count into a smoothed probability.
type Smoother interface {
	// Smooth returns the probability of a transition observed count times
	// out of contextTotal observations of its context, given vocabSize
	// possible next tokens.
	Smooth(count, contextTotal int64, vocabSize int) float64

	// Name identifies the smoothing method in the model manifest.
	Name() string
}

// AddKSmoother implements additive smoothing. K = 1 is Laplace (add-one).
type AddKSmoother struct {
	k float64
}

// NewAddKSmoother creates an additive smoother. Non-positive k falls back to
// Laplace smoothing.
func NewAddKSmoother(k float64) *AddKSmoother {
	if k <= 0 {
		k = 1.0
	}
	return &AddKSmoother{k: k}
}

func (s *AddKSmoother) Smooth(count, contextTotal int64, vocabSize int) float64 {
	denom := float64(contextTotal) + s.k*float64(vocabSize)
	if denom == 0 {
		return 0
	}
	return (float64(count) + s.k) / denom
}

func (s *AddKSmoother) Name() string {
	if s.k == 1.0 {
		return "laplace"
	}
	return "add-k"
}

// K returns the additive constant.
func (s *AddKSmoother) K() float64 {
	return s.k
}

// Vocabulary returns the distinct next tokens of counts, sorted. This is the
// vocabulary smoothing spreads mass over: every token ever observed as a
// successor at that order, across all contexts.
func Vocabulary(counts Counts) []string {
	seen := make(map[string]struct{})
	for _, next := range counts {
		for tok := range next {
			seen[tok] = struct{}{}
		}
	}
	vocab := make([]string, 0, len(seen))
	for tok := range seen {
		vocab = append(vocab, tok)
	}
	sort.Strings(vocab)
	return vocab
}

// Normalize converts counts into maximum-likelihood probabilities:
// P(next | ctx) = count(ctx, next) / total(ctx).
func Normalize(counts Counts) Table {
	table := make(Table, len(counts))
	for key, next := range counts {
		var total int64
		for _, n := range next {
			total += n
		}
		if total <= 0 {
			continue
		}
		row := make(map[string]float64, len(next))
		for tok, n := range next {
			row[tok] = float64(n) / float64(total)
		}
		table[key] = row
	}
	return table
}

// ApplySmoothing converts counts into smoothed probabilities. Every context
// receives an entry for every token of Vocabulary(counts), so unseen
// successors get non-zero mass.
func ApplySmoothing(counts Counts, smoother Smoother) Table {
	if smoother == nil {
		return Normalize(counts)
	}
	vocab := Vocabulary(counts)
	table := make(Table, len(counts))
	for key, next := range counts {
		var total int64
		for _, n := range next {
			total += n
		}
		if total <= 0 {
			continue
		}
		row := make(map[string]float64, len(vocab))
		for _, tok := range vocab {
			row[tok] = smoother.Smooth(next[tok], total, len(vocab))
		}
		table[key] = row
	}
	return table
}
