package markdown_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/chordgram/parsers/markdown"
	logger "github.com/sevigo/chordgram/parsers/testing"
	"github.com/sevigo/chordgram/schema"
)

const leadSheet = "# Songbook\n" + // 1
	"\n" + // 2
	"Intro notes, `C G` inline is ignored.\n" + // 3
	"\n" + // 4
	"```chords\n" + // 5
	"<verse_1> C G Am F\n" + // 6
	"\n" + // 7
	"# bridge\n" + // 8
	"Dm G C\n" + // 9
	"```\n" + // 10
	"\n" + // 11
	"```go\n" + // 12
	"func main() {}\n" + // 13
	"```\n" + // 14
	"\n" + // 15
	"~~~prog\n" + // 16
	"E A B\n" + // 17
	"~~~\n" // 18

func TestMarkdownParser(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	parser := markdown.NewMarkdownParser(log)

	t.Run("BasicInfo", func(t *testing.T) {
		assert.Equal(t, "markdown", parser.Name())
		assert.Contains(t, parser.Extensions(), ".md")
		assert.Contains(t, parser.Extensions(), ".markdown")
	})

	t.Run("CanHandle", func(t *testing.T) {
		assert.True(t, parser.CanHandle("songbook.md", nil))
		assert.True(t, parser.CanHandle("SONGBOOK.MARKDOWN", nil))
		assert.False(t, parser.CanHandle("songbook.txt", nil))
	})

	t.Run("ChordBlocks", func(t *testing.T) {
		var records []schema.Record
		err := parser.Parse(context.Background(), strings.NewReader(leadSheet), "songbook.md", func(r schema.Record) error {
			records = append(records, r)
			return nil
		})
		require.NoError(t, err)

		assert.Equal(t, []schema.Record{
			{Source: "songbook.md", Row: 6, Raw: "<verse_1> C G Am F"},
			{Source: "songbook.md", Row: 9, Raw: "Dm G C"},
			{Source: "songbook.md", Row: 17, Raw: "E A B"},
		}, records)
	})

	t.Run("NoChordBlocks", func(t *testing.T) {
		called := false
		err := parser.Parse(context.Background(), strings.NewReader("# Readme\n\nNothing here.\n"), "README.md", func(schema.Record) error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.False(t, called)
	})

	t.Run("EmitError", func(t *testing.T) {
		stop := errors.New("stop")
		err := parser.Parse(context.Background(), strings.NewReader(leadSheet), "songbook.md", func(schema.Record) error {
			return stop
		})
		assert.ErrorIs(t, err, stop)
	})

	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := parser.Parse(ctx, strings.NewReader(leadSheet), "songbook.md", func(schema.Record) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})
}
