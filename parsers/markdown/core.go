// Package markdown reads chord progressions out of Markdown lead sheets.
// Progressions live in fenced code blocks tagged with one of BlockLanguages,
// one progression per line.
package markdown

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/sevigo/chordgram/schema"
)

// BlockLanguages are the fenced code block info strings holding chords.
var BlockLanguages = []string{"chords", "chord", "progression", "progressions", "prog"}

// MarkdownParser implements schema.CorpusParser for Markdown files using
// goldmark
type MarkdownParser struct {
	logger   *slog.Logger
	markdown goldmark.Markdown
}

// NewMarkdownParser creates a new Markdown corpus parser
func NewMarkdownParser(logger *slog.Logger) schema.CorpusParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarkdownParser{
		logger: logger,
		// GFM so tables and strikethrough around the sheets parse as such
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Name returns "markdown" as the format name
func (p *MarkdownParser) Name() string {
	return "markdown"
}

// Extensions returns file extensions for Markdown
func (p *MarkdownParser) Extensions() []string {
	return []string{".md", ".markdown"}
}

// CanHandle determines if this parser can process the given file
func (p *MarkdownParser) CanHandle(path string, info fs.FileInfo) bool {
	if info != nil && info.IsDir() {
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

func isChordBlock(language string) bool {
	language = strings.ToLower(strings.TrimSpace(language))
	for _, l := range BlockLanguages {
		if language == l {
			return true
		}
	}
	return false
}
