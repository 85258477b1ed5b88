package parsers

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sevigo/chordgram/schema"
)

// ErrParserNotFound is returned when no parser handles a name, file or
// extension
var ErrParserNotFound = errors.New("corpus parser not found")

// registry implements the ParserRegistry interface
type registry struct {
	parsers    map[string]schema.CorpusParser // Map of format name to parser
	extensions map[string]schema.CorpusParser // Map of file extension to parser
	logger     *slog.Logger
	mu         sync.RWMutex
}

// NewRegistry creates a new, empty parser registry
func NewRegistry(logger *slog.Logger) ParserRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &registry{
		parsers:    make(map[string]schema.CorpusParser),
		extensions: make(map[string]schema.CorpusParser),
		logger:     logger,
	}
}

// RegisterParser adds a parser to the registry
func (r *registry) RegisterParser(parser schema.CorpusParser) error {
	if parser == nil {
		return errors.New("cannot register nil parser")
	}

	name := parser.Name()
	if name == "" {
		return errors.New("parser must have a non-empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.parsers[name]; exists {
		return fmt.Errorf("parser with name %q already registered", name)
	}

	r.parsers[name] = parser

	for _, ext := range parser.Extensions() {
		if ext == "" {
			continue
		}
		r.extensions[normalizeExt(ext)] = parser
	}

	r.logger.Debug("Registered corpus parser", "format", name, "extensions", parser.Extensions())
	return nil
}

// GetParser retrieves a parser by format name
func (r *registry) GetParser(name string) (schema.CorpusParser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parser, ok := r.parsers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrParserNotFound, name)
	}
	return parser, nil
}

// GetParserForFile returns the appropriate parser for a file
func (r *registry) GetParserForFile(path string, info fs.FileInfo) (schema.CorpusParser, error) {
	if ext := filepath.Ext(path); ext != "" {
		if parser, err := r.GetParserForExtension(ext); err == nil {
			return parser, nil
		}
	}

	for _, parser := range r.GetAllParsers() {
		if parser.CanHandle(path, info) {
			return parser, nil
		}
	}

	return nil, fmt.Errorf("%w for file %s", ErrParserNotFound, path)
}

// GetParserForExtension returns a parser for a file extension
func (r *registry) GetParserForExtension(ext string) (schema.CorpusParser, error) {
	if ext == "" {
		return nil, fmt.Errorf("%w: empty extension", ErrParserNotFound)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	parser, ok := r.extensions[normalizeExt(ext)]
	if !ok {
		return nil, fmt.Errorf("%w for extension %s", ErrParserNotFound, ext)
	}

	return parser, nil
}

// GetAllParsers returns all registered parsers, sorted by name
func (r *registry) GetAllParsers() []schema.CorpusParser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parsers := make([]schema.CorpusParser, 0, len(r.parsers))
	for _, parser := range r.parsers {
		parsers = append(parsers, parser)
	}
	sort.Slice(parsers, func(i, j int) bool { return parsers[i].Name() < parsers[j].Name() })

	return parsers
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext[0] != '.' {
		ext = "." + ext
	}
	return ext
}
