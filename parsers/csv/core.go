package csv

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/sevigo/chordgram/schema"
)

// DefaultColumns are the header names searched, in order, for the chord
// column. When none is present the first column is used.
var DefaultColumns = []string{"chords", "chord", "progression", "chord_sequence", "chord_progression"}

// CSVParser implements schema.CorpusParser for CSV and TSV files
type CSVParser struct {
	logger *slog.Logger
	column string
}

// Option configures a CSVParser
type Option func(*CSVParser)

// WithColumn forces the chord column by header name
func WithColumn(name string) Option {
	return func(p *CSVParser) {
		p.column = strings.TrimSpace(name)
	}
}

// New creates a CSV corpus parser
func New(logger *slog.Logger, opts ...Option) *CSVParser {
	if logger == nil {
		logger = slog.Default()
	}
	p := &CSVParser{logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewCSVParser creates a CSV corpus parser with default settings
func NewCSVParser(logger *slog.Logger) schema.CorpusParser {
	return New(logger)
}

// Name returns "csv" as the format name
func (p *CSVParser) Name() string {
	return "csv"
}

// Extensions returns file extensions for CSV files
func (p *CSVParser) Extensions() []string {
	return []string{".csv", ".tsv"}
}

// CanHandle determines if this parser can process the given file
func (p *CSVParser) CanHandle(path string, info fs.FileInfo) bool {
	if info != nil && info.IsDir() {
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".csv" || ext == ".tsv"
}
