package interpolation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/chordgram/interpolation"
)

func TestDistribution_Ranked(t *testing.T) {
	d := interpolation.Distribution{"G": 0.25, "F": 0.5, "C": 0.25}

	assert.Equal(t, []interpolation.Prediction{
		{Token: "F", Probability: 0.5},
		{Token: "C", Probability: 0.25},
		{Token: "G", Probability: 0.25},
	}, d.Ranked())

	assert.Len(t, d.Top(1), 1)
	assert.Len(t, d.Top(0), 3)
	assert.Len(t, d.Top(10), 3)
	assert.Empty(t, interpolation.Distribution{}.Ranked())
}
