package yaml

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/sevigo/chordgram/schema"
)

// DefaultKeys are the mapping keys checked, in order, for a song's chords.
var DefaultKeys = []string{"chords", "progression", "sequence"}

// collectionKeys name a top-level list of songs inside a mapping document.
var collectionKeys = []string{"songs", "progressions", "corpus"}

// YamlParser implements schema.CorpusParser for YAML corpora
type YamlParser struct {
	logger *slog.Logger
}

// NewYamlParser creates a new YAML corpus parser
func NewYamlParser(logger *slog.Logger) schema.CorpusParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &YamlParser{
		logger: logger,
	}
}

// Name returns "yaml" as the format name
func (p *YamlParser) Name() string {
	return "yaml"
}

// Extensions returns file extensions for YAML
func (p *YamlParser) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// CanHandle determines if this parser can process the given file
func (p *YamlParser) CanHandle(path string, info fs.FileInfo) bool {
	if info != nil && info.IsDir() {
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
