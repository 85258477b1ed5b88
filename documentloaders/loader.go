// Package documentloaders streams chord progression records out of corpus
// files, directories and remote git repositories.
package documentloaders

import (
	"context"
	"log/slog"

	"github.com/sevigo/chordgram/schema"
)

// Loader defines the interface for streaming corpus records from a source.
// Implementations call emit once per record, in source order, and stop at
// the first error emit returns.
type Loader interface {
	Load(ctx context.Context, emit schema.EmitFunc) error
}

// options are shared by the file, directory and reader loaders.
type options struct {
	logger *slog.Logger
}

// Option configures a loader.
type Option func(*options)

// WithLogger sets a custom logger for the loader.
// If not provided, slog.Default() will be used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// trackEmit wraps emit so callers can tell a consumer failure apart from a
// parse failure.
func trackEmit(emit schema.EmitFunc) (schema.EmitFunc, *error) {
	var emitErr error
	return func(r schema.Record) error {
		if err := emit(r); err != nil {
			emitErr = err
			return err
		}
		return nil
	}, &emitErr
}
