package documentloaders

import (
	"context"
	"fmt"
	"io"

	"github.com/sevigo/chordgram/schema"
)

// ReaderLoader parses an already open stream, such as standard input, with
// a fixed parser.
type ReaderLoader struct {
	r      io.Reader
	name   string
	parser schema.CorpusParser
	opts   options
}

// NewReader creates a loader that parses r with parser. Name is used as the
// record source.
func NewReader(r io.Reader, name string, parser schema.CorpusParser, opts ...Option) *ReaderLoader {
	return &ReaderLoader{
		r:      r,
		name:   name,
		parser: parser,
		opts:   newOptions(opts),
	}
}

// Load parses the stream once.
func (l *ReaderLoader) Load(ctx context.Context, emit schema.EmitFunc) error {
	if l.parser == nil {
		return fmt.Errorf("no parser for %s", l.name)
	}
	l.opts.logger.Info("Loading corpus stream", "source", l.name, "parser", l.parser.Name())
	if err := l.parser.Parse(ctx, l.r, l.name, emit); err != nil {
		return fmt.Errorf("failed to parse %s: %w", l.name, err)
	}
	return nil
}
