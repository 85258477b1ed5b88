package schema

import (
	"context"
	"io"
	"io/fs"
)

// CorpusParser reads one corpus file format and emits a Record per
// progression.
type CorpusParser interface {
	Name() string
	Extensions() []string
	CanHandle(path string, info fs.FileInfo) bool
	// Parse streams records out of r. Malformed entries are skipped, not
	// returned as errors; an error means the stream itself is unusable or
	// emit asked to stop.
	Parse(ctx context.Context, r io.Reader, path string, emit EmitFunc) error
}
