// Package json reads chord progressions from JSON documents and JSON Lines
// streams.
package json

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/sevigo/chordgram/schema"
)

// DefaultKeys are the object keys checked, in order, for a song's chords.
var DefaultKeys = []string{"chords", "progression", "sequence"}

// collectionKeys name the song array inside a top-level object.
var collectionKeys = []string{"songs", "progressions", "corpus"}

// JSONParser implements schema.CorpusParser for JSON corpora
type JSONParser struct {
	logger *slog.Logger
}

// NewJSONParser creates a new JSON corpus parser
func NewJSONParser(logger *slog.Logger) schema.CorpusParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONParser{
		logger: logger,
	}
}

// Name returns "json" as the format name
func (p *JSONParser) Name() string {
	return "json"
}

// Extensions returns file extensions for JSON and JSON Lines
func (p *JSONParser) Extensions() []string {
	return []string{".json", ".jsonl", ".ndjson"}
}

// CanHandle determines if this parser can process the given file
func (p *JSONParser) CanHandle(path string, info fs.FileInfo) bool {
	if info != nil && info.IsDir() {
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, validExt := range p.Extensions() {
		if ext == validExt {
			return true
		}
	}
	return false
}

func isLines(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".jsonl" || ext == ".ndjson"
}
