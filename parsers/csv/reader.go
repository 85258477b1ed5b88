package csv

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/sevigo/chordgram/schema"
)

const sampleSize = 4096

// ErrNoColumn is returned when a requested chord column is missing from the
// header.
var ErrNoColumn = errors.New("chord column not found")

var headerCell = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Parse streams one record per CSV row, taking the chord string from the
// detected chord column. Rows that fail to parse or lack the column are
// logged and skipped; read errors from r abort the parse.
func (p *CSVParser) Parse(ctx context.Context, r io.Reader, path string, emit schema.EmitFunc) error {
	br := bufio.NewReaderSize(r, sampleSize)
	sample, err := br.Peek(sampleSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return fmt.Errorf("failed to read CSV sample: %w", err)
	}
	if strings.TrimSpace(string(sample)) == "" {
		p.logger.Debug("Empty CSV file", "path", path)
		return nil
	}

	reader := csv.NewReader(br)
	reader.Comma = p.detectDelimiter(string(sample), path)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to parse CSV header: %w", err)
	}

	column, hasHeader, err := p.selectColumn(first)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	p.logger.Debug("CSV layout detected", "path", path, "delimiter", string(reader.Comma), "has_header", hasHeader, "column", column)

	row := 0
	if !hasHeader {
		row++
		if err := p.emitRow(first, column, path, row, emit); err != nil {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return fmt.Errorf("failed to read CSV row %d: %w", row, err)
			}
			p.logger.Warn("Skipping malformed CSV row", "path", path, "row", row, "error", err)
			continue
		}
		if err := p.emitRow(record, column, path, row, emit); err != nil {
			return err
		}
	}

	return nil
}

func (p *CSVParser) emitRow(record []string, column int, path string, row int, emit schema.EmitFunc) error {
	raw := ""
	if column < len(record) {
		raw = record[column]
	} else {
		p.logger.Warn("Skipping incomplete CSV row", "path", path, "row", row, "fields", len(record))
	}
	return emit(schema.Record{Source: path, Row: row, Raw: raw})
}

// selectColumn finds the chord column. A first row is treated as a header
// when it names a known chord column or consists only of identifier-like
// cells.
func (p *CSVParser) selectColumn(first []string) (int, bool, error) {
	normalized := make([]string, len(first))
	for i, cell := range first {
		normalized[i] = strings.ToLower(strings.TrimSpace(cell))
	}

	if p.column != "" {
		want := strings.ToLower(p.column)
		for i, cell := range normalized {
			if cell == want {
				return i, true, nil
			}
		}
		return 0, false, fmt.Errorf("%w: %q", ErrNoColumn, p.column)
	}

	for _, name := range DefaultColumns {
		for i, cell := range normalized {
			if cell == name {
				return i, true, nil
			}
		}
	}

	return 0, p.looksLikeHeader(first), nil
}

// looksLikeHeader checks the raw cells: chord data always carries an
// upper-case root, header names here are lower-case identifiers.
func (p *CSVParser) looksLikeHeader(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, cell := range cells {
		if !headerCell.MatchString(strings.TrimSpace(cell)) {
			return false
		}
	}
	return true
}

// detectDelimiter attempts to detect the CSV delimiter
func (p *CSVParser) detectDelimiter(sample string, path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}

	lines := strings.Split(sample, "\n")
	if len(lines) > 3 {
		lines = lines[:3]
	}
	head := strings.Join(lines, "\n")

	// Ties resolve in this order
	candidates := []rune{',', ';', '\t', '|'}

	bestDelimiter := ','
	maxCount := 0
	for _, delim := range candidates {
		if count := strings.Count(head, string(delim)); count > maxCount {
			maxCount = count
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}
