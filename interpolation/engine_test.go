package interpolation_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/chordgram/interpolation"
	"github.com/sevigo/chordgram/ngram"
)

const tolerance = 1e-9

// scenarioModel builds the tables used by the worked examples: progression
// C G Amin with strong contexts at every order unless trigramCount says
// otherwise.
func scenarioModel(trigramCount int64) *ngram.Model {
	tables := [ngram.MaxOrder]ngram.Table{
		{"Amin": {"F": 0.22, "C": 0.18, "G": 0.30, "Emin": 0.30}},
		{"G,Amin": {"F": 0.35, "C": 0.30, "Dmin": 0.20, "G": 0.15}},
		{"C,G,Amin": {"F": 0.40, "C": 0.25, "Dmin": 0.15, "Emin": 0.10, "Bdim": 0.10}},
	}
	meta := [ngram.MaxOrder]ngram.Metadata{
		{"Amin": 12},
		{"G,Amin": 5},
		{},
	}
	if trigramCount > 0 {
		meta[2]["C,G,Amin"] = trigramCount
	}
	return ngram.NewModel(tables, meta, "none")
}

func assertWeights(t *testing.T, want, got interpolation.Weights) {
	t.Helper()
	assert.InDelta(t, want.Lambda1, got.Lambda1, tolerance, "λ1")
	assert.InDelta(t, want.Lambda2, got.Lambda2, tolerance, "λ2")
	assert.InDelta(t, want.Lambda3, got.Lambda3, tolerance, "λ3")
	assert.InDelta(t, 1.0, got.Sum(), tolerance, "sum")
}

func TestBlend_AllContextsStrong(t *testing.T) {
	engine := interpolation.New()
	res := engine.Blend([]string{"C", "G", "Amin"}, scenarioModel(5))

	assertWeights(t, interpolation.DefaultWeights(), res.Weights)
	assert.Equal(t, [3]bool{true, true, true}, res.Included)
	assert.Equal(t, interpolation.ContextCounts{12, 5, 5}, res.Counts)
	assert.InDelta(t, 0.60*0.40+0.30*0.35+0.10*0.22, res.Scores["F"], tolerance)
	assert.InDelta(t, 0.367, res.Scores["F"], tolerance)
	assert.InDelta(t, 0.60*0.10, res.Scores["Bdim"], tolerance)
}

func TestBlend_UnseenTrigramContext(t *testing.T) {
	engine := interpolation.New()
	res := engine.Blend([]string{"C", "G", "Amin"}, scenarioModel(0))

	assertWeights(t, interpolation.Weights{Lambda1: 0.22, Lambda2: 0.48, Lambda3: 0.30}, res.Weights)
	assert.Equal(t, [3]bool{true, true, false}, res.Included)

	// Bdim only exists in the trigram table, which is excluded.
	assert.NotContains(t, res.Scores, "Bdim")
	assert.InDelta(t, 0.48*0.35+0.22*0.22, res.Scores["F"], tolerance)
}

func TestPredictNext_EmptyProgression(t *testing.T) {
	dist := interpolation.New().PredictNext(nil, scenarioModel(5))
	assert.NotNil(t, dist)
	assert.Empty(t, dist)
	assert.True(t, dist.Empty())

	dist = interpolation.PredictNext([]string{}, scenarioModel(5), interpolation.DefaultWeights())
	assert.Empty(t, dist)
}

func TestPredictNext_UnknownTokens(t *testing.T) {
	dist := interpolation.New().PredictNext([]string{"X", "Y", "Z"}, scenarioModel(5))
	assert.Empty(t, dist)
}

func TestPredictNext_SumsToOne(t *testing.T) {
	progressions := [][]string{
		{"Amin"},
		{"G", "Amin"},
		{"C", "G", "Amin"},
		{"D", "C", "G", "Amin"},
	}
	for _, count := range []int64{0, 2, 3, 9} {
		model := scenarioModel(count)
		for _, p := range progressions {
			dist := interpolation.New().PredictNext(p, model)
			require.NotEmpty(t, dist)
			sum := 0.0
			for _, prob := range dist {
				assert.Greater(t, prob, 0.0)
				sum += prob
			}
			assert.InDelta(t, 1.0, sum, tolerance, "progression %v count %d", p, count)
		}
	}
}

func TestPredictNext_ScenarioRanking(t *testing.T) {
	dist := interpolation.New().PredictNext([]string{"C", "G", "Amin"}, scenarioModel(5))
	top := dist.Top(2)
	require.Len(t, top, 2)
	assert.Equal(t, "F", top[0].Token)
	assert.Equal(t, "C", top[1].Token)
}

func TestPredictNext_ShortProgressionUsesAvailableOrders(t *testing.T) {
	engine := interpolation.New()

	res := engine.Blend([]string{"Amin"}, scenarioModel(5))
	assert.Equal(t, [3]bool{true, false, false}, res.Included)
	assert.Equal(t, [3]string{"Amin", "", ""}, res.Contexts)

	dist := res.Distribution()
	assert.InDelta(t, 0.22, dist["F"], tolerance)
	assert.InDelta(t, 0.30, dist["G"], tolerance)
}

func TestPredictNext_WeakLowestOrderStillUsed(t *testing.T) {
	tables := [ngram.MaxOrder]ngram.Table{{"C": {"G": 1.0}}}
	meta := [ngram.MaxOrder]ngram.Metadata{{"C": 1}}
	model := ngram.NewModel(tables, meta, "none")

	dist := interpolation.New().PredictNext([]string{"C"}, model)
	assert.Equal(t, interpolation.Distribution{"G": 1.0}, dist)
}

func TestPredictNext_ThresholdBoundary(t *testing.T) {
	engine := interpolation.New()

	atThreshold := engine.Blend([]string{"C", "G", "Amin"}, scenarioModel(3))
	assert.True(t, atThreshold.Included[2], "count 3 is strong")
	assertWeights(t, interpolation.DefaultWeights(), atThreshold.Weights)

	below := engine.Blend([]string{"C", "G", "Amin"}, scenarioModel(2))
	assert.False(t, below.Included[2], "count 2 is weak")
}

func TestBackoffMonotonicity(t *testing.T) {
	engine := interpolation.New()
	contribution := func(count int64) float64 {
		res := engine.Blend([]string{"C", "G", "Amin"}, scenarioModel(count))
		if !res.Included[2] {
			return 0
		}
		return res.Weights.Lambda3
	}

	strong := contribution(engine.Threshold())
	for count := int64(0); count < engine.Threshold(); count++ {
		assert.LessOrEqual(t, contribution(count), strong, "count %d", count)
	}
	for count := engine.Threshold(); count < 10; count++ {
		assert.InDelta(t, strong, contribution(count), tolerance)
	}
}

func TestPredictNext_IsDeterministic(t *testing.T) {
	engine := interpolation.New()
	model := scenarioModel(5)
	want := engine.PredictNext([]string{"C", "G", "Amin"}, model)

	for i := 0; i < 20; i++ {
		assert.Equal(t, want, engine.PredictNext([]string{"C", "G", "Amin"}, model))
	}
}

func TestPredictNext_ConcurrentCallers(t *testing.T) {
	engine := interpolation.New()
	model := scenarioModel(5)
	progression := []string{"C", "G", "Amin"}
	want := engine.PredictNext(progression, model)

	var wg sync.WaitGroup
	results := make([]interpolation.Distribution, 32)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = engine.PredictNext(progression, model)
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestEngineOptions(t *testing.T) {
	engine := interpolation.New(
		interpolation.WithWeights(interpolation.Weights{Lambda1: 1, Lambda2: 1, Lambda3: 2}),
		interpolation.WithThreshold(10),
	)
	assertWeights(t, interpolation.Weights{Lambda1: 0.25, Lambda2: 0.25, Lambda3: 0.5}, engine.Weights())
	assert.Equal(t, int64(10), engine.Threshold())

	res := engine.Blend([]string{"C", "G", "Amin"}, scenarioModel(5))
	assert.Equal(t, [3]bool{true, false, false}, res.Included)

	assert.Equal(t, interpolation.DefaultThreshold, interpolation.New(interpolation.WithThreshold(0)).Threshold())
}

func TestWithWeights_IgnoresInvalid(t *testing.T) {
	tests := []struct {
		name    string
		weights interpolation.Weights
	}{
		{"negative lambda", interpolation.Weights{Lambda1: -0.5, Lambda2: 0.5, Lambda3: 1}},
		{"all zero", interpolation.Weights{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := interpolation.New(interpolation.WithWeights(tt.weights))
			assertWeights(t, interpolation.DefaultWeights(), engine.Weights())

			res := engine.Blend([]string{"C", "G", "Amin"}, scenarioModel(5))
			for n := 1; n <= 3; n++ {
				assert.GreaterOrEqual(t, res.Weights.Lambda(n), 0.0)
			}
			assert.InDelta(t, 1.0, res.Weights.Sum(), tolerance)
		})
	}
}

func TestExtractContexts(t *testing.T) {
	assert.Equal(t, [3]string{}, interpolation.ExtractContexts(nil))
	assert.Equal(t, [3]string{"B", "A,B", ""}, interpolation.ExtractContexts([]string{"A", "B"}))
	assert.Equal(t, [3]string{"D", "C,D", "B,C,D"}, interpolation.ExtractContexts([]string{"A", "B", "C", "D"}))
}
