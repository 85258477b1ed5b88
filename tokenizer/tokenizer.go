// Package tokenizer turns raw chord progression strings into sequences of
// normalized chord tokens suitable for n-gram counting.
package tokenizer

import (
	"regexp"
	"strings"
)

// Tokenizer splits a raw progression into tokens.
type Tokenizer interface {
	Tokenize(raw string) []string
}

var sectionTag = regexp.MustCompile(`<[^>]+>`)

// options holds configuration settings for the chord tokenizer.
type options struct {
	keepSlashBass bool
	keepMajor     bool
}

// Option is a function type for configuring the tokenizer.
type Option func(*options)

// WithKeepSlashBass keeps the bass note of slash chords ("C/E") instead of
// reducing them to their root chord.
func WithKeepSlashBass() Option {
	return func(o *options) {
		o.keepSlashBass = true
	}
}

// WithExplicitMajor renders major triads as "Cmaj" instead of "C".
func WithExplicitMajor() Option {
	return func(o *options) {
		o.keepMajor = true
	}
}

// ChordTokenizer normalizes chord symbols: flats become sharps, qualities
// collapse onto a small fixed set, section tags and unparsable symbols are
// dropped.
type ChordTokenizer struct {
	opts options
}

// New creates a chord tokenizer.
func New(opts ...Option) *ChordTokenizer {
	t := &ChordTokenizer{}
	for _, opt := range opts {
		opt(&t.opts)
	}
	return t
}

// Tokenize strips section tags such as <verse_1>, splits on whitespace and
// normalizes every chord. Invalid chords are skipped.
func (t *ChordTokenizer) Tokenize(raw string) []string {
	raw = sectionTag.ReplaceAllString(raw, " ")
	fields := strings.Fields(raw)

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if chord, ok := t.NormalizeChord(f); ok {
			tokens = append(tokens, chord)
		}
	}
	return tokens
}
