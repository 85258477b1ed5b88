package gitutil_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/chordgram/gitutil"
)

func TestCloner_Options(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		c := gitutil.NewCloner(nil)
		require.NotNil(t, c.Logger)

		opts := c.CloneOptions("https://example.com/corpus.git")
		assert.Equal(t, "https://example.com/corpus.git", opts.URL)
		assert.Equal(t, 1, opts.Depth)
		assert.False(t, opts.SingleBranch)
		assert.Equal(t, plumbing.ReferenceName(""), opts.ReferenceName)
	})

	t.Run("BranchAndDepth", func(t *testing.T) {
		c := gitutil.NewCloner(nil, gitutil.WithBranch(" songs "), gitutil.WithDepth(0))

		opts := c.CloneOptions("https://example.com/corpus.git")
		assert.Equal(t, 0, opts.Depth)
		assert.True(t, opts.SingleBranch)
		assert.Equal(t, plumbing.NewBranchReferenceName("songs"), opts.ReferenceName)
	})

	t.Run("NegativeDepthIgnored", func(t *testing.T) {
		c := gitutil.NewCloner(nil, gitutil.WithDepth(-4))
		assert.Equal(t, 1, c.Depth)
	})
}

func TestCloner_CloneErrors(t *testing.T) {
	c := gitutil.NewCloner(nil)

	t.Run("EmptyURL", func(t *testing.T) {
		_, cleanup, err := c.Clone(context.Background(), "  ")
		assert.ErrorIs(t, err, gitutil.ErrEmptyURL)
		assert.Nil(t, cleanup)
	})

	t.Run("MissingRepository", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "does-not-exist")
		path, cleanup, err := c.Clone(context.Background(), missing)
		require.Error(t, err)
		assert.Empty(t, path)
		assert.Nil(t, cleanup)
	})
}
