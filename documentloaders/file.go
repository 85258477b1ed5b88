package documentloaders

import (
	"context"
	"fmt"
	"os"

	"github.com/sevigo/chordgram/parsers"
	"github.com/sevigo/chordgram/schema"
)

// FileLoader loads a single corpus file, picking the parser by extension.
type FileLoader struct {
	path     string
	registry parsers.ParserRegistry
	opts     options
}

// NewFile creates a loader for one corpus file.
func NewFile(path string, registry parsers.ParserRegistry, opts ...Option) *FileLoader {
	return &FileLoader{
		path:     path,
		registry: registry,
		opts:     newOptions(opts),
	}
}

// Load parses the file and emits its records.
func (l *FileLoader) Load(ctx context.Context, emit schema.EmitFunc) error {
	info, err := os.Stat(l.path)
	if err != nil {
		return fmt.Errorf("failed to stat corpus file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("corpus path %s is a directory", l.path)
	}

	parser, err := l.registry.GetParserForFile(l.path, info)
	if err != nil {
		return err
	}

	f, err := os.Open(l.path)
	if err != nil {
		return fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()

	l.opts.logger.Info("Loading corpus file", "path", l.path, "parser", parser.Name(), "size", info.Size())
	if err := parser.Parse(ctx, f, l.path, emit); err != nil {
		return fmt.Errorf("failed to parse %s: %w", l.path, err)
	}
	return nil
}
