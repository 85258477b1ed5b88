package ngram_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/chordgram/ngram"
)

func TestAggregator_Ingest(t *testing.T) {
	agg := ngram.NewAggregator()
	require.NoError(t, agg.Ingest([]string{"C", "G", "Amin", "F", "C"}))

	wantUnigram := ngram.Counts{
		"C":    {"G": 1},
		"G":    {"Amin": 1},
		"Amin": {"F": 1},
		"F":    {"C": 1},
	}
	wantBigram := ngram.Counts{
		"C,G":    {"Amin": 1},
		"G,Amin": {"F": 1},
		"Amin,F": {"C": 1},
	}
	wantTrigram := ngram.Counts{
		"C,G,Amin": {"F": 1},
		"G,Amin,F": {"C": 1},
	}

	if diff := cmp.Diff(wantUnigram, agg.Counts(ngram.Unigram)); diff != "" {
		t.Errorf("unigram counts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantBigram, agg.Counts(ngram.Bigram)); diff != "" {
		t.Errorf("bigram counts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantTrigram, agg.Counts(ngram.Trigram)); diff != "" {
		t.Errorf("trigram counts mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, int64(1), agg.Sequences())
}

func TestAggregator_ShortSequences(t *testing.T) {
	tests := []struct {
		name                  string
		seq                   []string
		unigram, bigram, trig int
	}{
		{"single token", []string{"C"}, 0, 0, 0},
		{"two tokens", []string{"C", "G"}, 1, 0, 0},
		{"three tokens", []string{"C", "G", "Amin"}, 2, 1, 0},
		{"four tokens", []string{"C", "G", "Amin", "F"}, 3, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := ngram.NewAggregator()
			require.NoError(t, agg.Ingest(tt.seq))
			assert.Equal(t, tt.unigram, agg.Len(ngram.Unigram))
			assert.Equal(t, tt.bigram, agg.Len(ngram.Bigram))
			assert.Equal(t, tt.trig, agg.Len(ngram.Trigram))
		})
	}
}

func TestAggregator_RepeatedContextsAccumulate(t *testing.T) {
	agg := ngram.NewAggregator()
	require.NoError(t, agg.Ingest([]string{"C", "G", "C", "G", "C", "F"}))

	assert.Equal(t, map[string]int64{"G": 2, "F": 1}, agg.Counts(ngram.Unigram)["C"])
	assert.Equal(t, map[string]int64{"C": 2}, agg.Counts(ngram.Unigram)["G"])
	assert.Equal(t, ngram.Metadata{"C": 3, "G": 2}, agg.ContextTotals(ngram.Unigram))
	assert.Equal(t, map[string]int64{"G": 1, "F": 1}, agg.Counts(ngram.Trigram)["C,G,C"])
	assert.Equal(t, map[string]int64{"C": 1}, agg.Counts(ngram.Trigram)["G,C,G"])
}

func TestAggregator_MalformedSequence(t *testing.T) {
	agg := ngram.NewAggregator()
	require.NoError(t, agg.Ingest([]string{"C", "G"}))

	for _, seq := range [][]string{nil, {}, {"C", "", "G"}} {
		err := agg.Ingest(seq)
		assert.ErrorIs(t, err, ngram.ErrMalformedSequence)
	}

	assert.Equal(t, int64(1), agg.Sequences())
	assert.Equal(t, ngram.Counts{"C": {"G": 1}}, agg.Counts(ngram.Unigram))
}

func TestAggregator_DelimiterCollisionLeavesStateUnchanged(t *testing.T) {
	agg := ngram.NewAggregator()
	require.NoError(t, agg.Ingest([]string{"C", "G", "Amin", "F"}))
	before := agg.Clone()

	err := agg.Ingest([]string{"C", "G", "A,min", "F", "C"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ngram.ErrDelimiterCollision))

	var collision *ngram.DelimiterCollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "A,min", collision.Token)
	assert.Equal(t, 3, collision.Position)

	for _, order := range ngram.Orders {
		if diff := cmp.Diff(before.Counts(order), agg.Counts(order)); diff != "" {
			t.Errorf("%s counts changed after rejected ingest (-before +after):\n%s", order, diff)
		}
	}
	assert.Equal(t, before.Sequences(), agg.Sequences())
}

func TestAggregator_MergeIsPartitionAndOrderIndependent(t *testing.T) {
	corpus := [][]string{
		{"C", "G", "Amin", "F"},
		{"C", "G", "Amin", "F", "C", "G"},
		{"Dmin", "G", "C"},
		{"Amin", "F", "C", "G", "Amin"},
		{"E", "Amin"},
		{"F", "G", "C", "Amin", "F", "G", "C"},
	}

	sequential := ngram.NewAggregator()
	for _, seq := range corpus {
		require.NoError(t, sequential.Ingest(seq))
	}

	shard := func(seqs ...[]string) *ngram.Aggregator {
		a := ngram.NewAggregator()
		for _, s := range seqs {
			require.NoError(t, a.Ingest(s))
		}
		return a
	}

	t.Run("commutative", func(t *testing.T) {
		a1, b1 := shard(corpus[:2]...), shard(corpus[2:]...)
		a2, b2 := shard(corpus[:2]...), shard(corpus[2:]...)
		a1.Merge(b1)
		b2.Merge(a2)
		assertSameCounts(t, a1, b2)
		assertSameCounts(t, sequential, a1)
	})

	t.Run("associative", func(t *testing.T) {
		// (a + b) + c
		left := shard(corpus[0])
		left.Merge(shard(corpus[1:3]...))
		left.Merge(shard(corpus[3:]...))

		// a + (b + c)
		bc := shard(corpus[1:3]...)
		bc.Merge(shard(corpus[3:]...))
		right := shard(corpus[0])
		right.Merge(bc)

		assertSameCounts(t, left, right)
		assertSameCounts(t, sequential, left)
	})

	t.Run("one shard per sequence", func(t *testing.T) {
		merged := ngram.NewAggregator()
		for i := len(corpus) - 1; i >= 0; i-- {
			merged.Merge(shard(corpus[i]))
		}
		assertSameCounts(t, sequential, merged)
		assert.Equal(t, sequential.Sequences(), merged.Sequences())
	})

	t.Run("merge leaves source untouched", func(t *testing.T) {
		src := shard(corpus[0])
		dst := shard(corpus[1])
		dst.Merge(src)
		assertSameCounts(t, shard(corpus[0]), src)
	})

	t.Run("merge with nil and self", func(t *testing.T) {
		a := shard(corpus[0])
		a.Merge(nil)
		assertSameCounts(t, shard(corpus[0]), a)

		a.Merge(a)
		assert.Equal(t, int64(2), a.Counts(ngram.Unigram)["C"]["G"])
	})
}

func assertSameCounts(t *testing.T, want, got *ngram.Aggregator) {
	t.Helper()
	for _, order := range ngram.Orders {
		if diff := cmp.Diff(want.Counts(order), got.Counts(order)); diff != "" {
			t.Errorf("%s counts differ (-want +got):\n%s", order, diff)
		}
	}
}

func TestAggregator_CountsIsACopy(t *testing.T) {
	agg := ngram.NewAggregator()
	require.NoError(t, agg.Ingest([]string{"C", "G"}))

	counts := agg.Counts(ngram.Unigram)
	counts["C"]["G"] = 100

	assert.Equal(t, int64(1), agg.Counts(ngram.Unigram)["C"]["G"])
	assert.Nil(t, agg.Counts(ngram.Order(4)))
}

func TestContextKey(t *testing.T) {
	assert.Equal(t, "Amin", ngram.ContextKey("Amin"))
	assert.Equal(t, "C,G,Amin", ngram.ContextKey("C", "G", "Amin"))
	assert.Equal(t, []string{"C", "G", "Amin"}, ngram.SplitKey("C,G,Amin"))
}
