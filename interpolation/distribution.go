package interpolation

import "sort"

// Distribution maps a candidate next token to its probability.
type Distribution map[string]float64

// Prediction is one entry of a ranked distribution.
type Prediction struct {
	Token       string  `json:"token"`
	Probability float64 `json:"probability"`
}

// Ranked returns the entries by descending probability, ties broken by token.
func (d Distribution) Ranked() []Prediction {
	out := make([]Prediction, 0, len(d))
	for tok, p := range d {
		out = append(out, Prediction{Token: tok, Probability: p})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Probability != out[j].Probability {
			return out[i].Probability > out[j].Probability
		}
		return out[i].Token < out[j].Token
	})
	return out
}

// Top returns at most n ranked entries. n <= 0 returns all of them.
func (d Distribution) Top(n int) []Prediction {
	ranked := d.Ranked()
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Empty reports whether no prediction is available.
func (d Distribution) Empty() bool {
	return len(d) == 0
}
