package interpolation

import (
	"sort"

	"github.com/sevigo/chordgram/ngram"
)

// Model is the read-only view of a finalized model the engine needs.
// *ngram.Model implements it.
type Model interface {
	ContextCount(order ngram.Order, key string) int64
	Distribution(order ngram.Order, key string) map[string]float64
}

// Engine holds the base weights and backoff threshold. It has no mutable
// state; one Engine may serve any number of goroutines.
type Engine struct {
	weights   Weights
	threshold int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithWeights sets the base weights. They are normalized before use.
// Weights rejected by Validate are ignored.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		if w.Validate() == nil {
			e.weights = w.Normalized()
		}
	}
}

// WithThreshold sets the minimum count of a strong context.
func WithThreshold(threshold int64) Option {
	return func(e *Engine) {
		if threshold > 0 {
			e.threshold = threshold
		}
	}
}

// New creates an engine with DefaultWeights and DefaultThreshold unless
// configured otherwise.
func New(opts ...Option) *Engine {
	e := &Engine{
		weights:   DefaultWeights(),
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Weights returns the base weights.
func (e *Engine) Weights() Weights {
	return e.weights
}

// Threshold returns the strong-context threshold.
func (e *Engine) Threshold() int64 {
	return e.threshold
}

// Result describes one blend: the contexts that were looked up, the adjusted
// weights, which orders contributed and the raw scores before the final
// normalization. Zero scores are omitted.
type Result struct {
	Contexts [3]string
	Counts   ContextCounts
	Weights  Weights
	Included [3]bool
	Scores   map[string]float64
}

// ExtractContexts returns the keys of the order-1, order-2 and order-3
// contexts of a progression. Orders the progression is too short for get an
// empty key.
func ExtractContexts(progression []string) [3]string {
	var keys [3]string
	for _, order := range ngram.Orders {
		n := int(order)
		if len(progression) < n {
			break
		}
		keys[n-1] = ngram.ContextKey(progression[len(progression)-n:]...)
	}
	return keys
}

// Blend computes the interpolated, unnormalized scores for the token
// following progression.
func (e *Engine) Blend(progression []string, model Model) Result {
	res := Result{
		Contexts: ExtractContexts(progression),
		Scores:   make(map[string]float64),
	}

	for i, key := range res.Contexts {
		if key == "" {
			continue
		}
		res.Counts[i] = model.ContextCount(ngram.Order(i+1), key)
	}

	res.Weights = AdjustWeights(e.weights, res.Counts, e.threshold)

	// The lowest order is kept whenever it exists; higher orders must also
	// be strong.
	res.Included[0] = len(progression) >= 1
	res.Included[1] = len(progression) >= 2 && res.Counts[1] >= e.threshold
	res.Included[2] = len(progression) >= 3 && res.Counts[2] >= e.threshold

	var dists [3]map[string]float64
	candidates := make(map[string]struct{})
	for i, ok := range res.Included {
		if !ok {
			continue
		}
		dists[i] = model.Distribution(ngram.Order(i+1), res.Contexts[i])
		for tok := range dists[i] {
			candidates[tok] = struct{}{}
		}
	}

	for tok := range candidates {
		score := 0.0
		for i, dist := range dists {
			if dist == nil {
				continue
			}
			score += res.Weights.Lambda(i+1) * dist[tok]
		}
		if score > 0 {
			res.Scores[tok] = score
		}
	}
	return res
}

// PredictNext returns the normalized next-token distribution for
// progression. The result is empty, not nil, when nothing can be predicted:
// an empty progression or empty tables at every applicable order.
func (e *Engine) PredictNext(progression []string, model Model) Distribution {
	return e.Blend(progression, model).Distribution()
}

// Distribution normalizes the scores of r so they sum to 1.
func (r Result) Distribution() Distribution {
	tokens := make([]string, 0, len(r.Scores))
	for tok := range r.Scores {
		tokens = append(tokens, tok)
	}
	// fixed summation order keeps the result reproducible
	sort.Strings(tokens)

	total := 0.0
	for _, tok := range tokens {
		total += r.Scores[tok]
	}

	dist := make(Distribution, len(tokens))
	if total <= 0 {
		return dist
	}
	for _, tok := range tokens {
		dist[tok] = r.Scores[tok] / total
	}
	return dist
}

// PredictNext blends model with the given base weights and the default
// threshold. Invalid weights fall back to DefaultWeights.
func PredictNext(progression []string, model Model, weights Weights) Distribution {
	return New(WithWeights(weights)).PredictNext(progression, model)
}
