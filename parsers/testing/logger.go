package testing

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/sevigo/chordgram/schema"
)

// NewTestLogger returns a debug level logger writing into the returned
// buffer, so parser tests can assert on warnings for skipped input.
func NewTestLogger(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

// Collect runs parser over content and returns every emitted record along
// with the parse error.
func Collect(t *testing.T, parser schema.CorpusParser, content, path string) ([]schema.Record, error) {
	t.Helper()

	var records []schema.Record
	err := parser.Parse(context.Background(), strings.NewReader(content), path, func(r schema.Record) error {
		records = append(records, r)
		return nil
	})
	return records, err
}

// Raws returns the raw chord strings of records in emission order.
func Raws(records []schema.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Raw)
	}
	return out
}
