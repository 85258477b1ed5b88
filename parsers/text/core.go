package text

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/sevigo/chordgram/schema"
)

// TextParser implements schema.CorpusParser for plain text files holding one
// progression per line
type TextParser struct {
	logger *slog.Logger
}

// NewTextParser creates a new plain text corpus parser
func NewTextParser(logger *slog.Logger) schema.CorpusParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextParser{
		logger: logger,
	}
}

// Name returns "text" as the format name
func (p *TextParser) Name() string {
	return "text"
}

// Extensions returns file extensions for text files
func (p *TextParser) Extensions() []string {
	return []string{".txt", ".text", ".chords", ".prog"}
}

// CanHandle determines if this parser can process the given file
func (p *TextParser) CanHandle(path string, info fs.FileInfo) bool {
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
