package fake

import (
	"context"

	"github.com/sevigo/chordgram/schema"
)

// Loader is a mock corpus loader for testing purposes.
type Loader struct {
	RecordsToEmit []schema.Record
	ErrToReturn   error
}

// NewLoader creates a fake loader emitting one record per raw string.
func NewLoader(raws ...string) *Loader {
	records := make([]schema.Record, len(raws))
	for i, raw := range raws {
		records[i] = schema.Record{Source: "fake", Row: i + 1, Raw: raw}
	}
	return &Loader{RecordsToEmit: records}
}

// Load emits the pre-configured records, then returns the pre-configured
// error.
func (l *Loader) Load(ctx context.Context, emit schema.EmitFunc) error {
	for _, rec := range l.RecordsToEmit {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(rec); err != nil {
			return err
		}
	}
	return l.ErrToReturn
}
