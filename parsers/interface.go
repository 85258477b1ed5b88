package parsers

import (
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/sevigo/chordgram/parsers/csv"
	"github.com/sevigo/chordgram/parsers/json"
	"github.com/sevigo/chordgram/parsers/markdown"
	"github.com/sevigo/chordgram/parsers/text"
	"github.com/sevigo/chordgram/parsers/yaml"
	"github.com/sevigo/chordgram/schema"
)

// ParserRegistry tracks registered corpus format parsers
type ParserRegistry interface {
	RegisterParser(parser schema.CorpusParser) error
	GetParser(name string) (schema.CorpusParser, error)
	GetParserForFile(path string, info fs.FileInfo) (schema.CorpusParser, error)
	GetParserForExtension(ext string) (schema.CorpusParser, error)
	GetAllParsers() []schema.CorpusParser
}

// RegisterCorpusParsers initializes a registry with every built-in corpus
// format
func RegisterCorpusParsers(logger *slog.Logger) (ParserRegistry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	registry := NewRegistry(logger)

	parserFactories := map[string]func(*slog.Logger) schema.CorpusParser{
		"csv":      csv.NewCSVParser,
		"json":     json.NewJSONParser,
		"markdown": markdown.NewMarkdownParser,
		"text":     text.NewTextParser,
		"yaml":     yaml.NewYamlParser,
	}

	names := make([]string, 0, len(parserFactories))
	for name := range parserFactories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		parser := parserFactories[name](logger.With("parser", name))
		if err := registry.RegisterParser(parser); err != nil {
			return registry, fmt.Errorf("failed to register parser %s: %w", name, err)
		}
	}

	logger.Info("Corpus parsers registered", "count", len(registry.GetAllParsers()))
	return registry, nil
}
