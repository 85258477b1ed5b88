package builder

import (
	"log/slog"
	"runtime"

	"github.com/sevigo/chordgram/tokenizer"
)

const (
	// DefaultChunkSize is the number of records handed to a shard at once.
	DefaultChunkSize = 10000
	// DefaultProgressInterval is how many records pass between progress logs.
	DefaultProgressInterval = 10000
	// DefaultMinLength is the shortest progression that is counted.
	DefaultMinLength = 2
)

// options holds configuration settings for the corpus builder.
type options struct {
	workers          int
	chunkSize        int
	progressInterval int
	minLength        int
	tokenizer        tokenizer.Tokenizer
	logger           *slog.Logger
}

// Option is a function type for configuring the builder.
type Option func(*options)

// WithWorkers sets the number of counting shards. Values below one are
// ignored.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithChunkSize sets how many records are batched per shard hand-off.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithProgressInterval sets how often read progress is logged. Zero
// disables progress logging.
func WithProgressInterval(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.progressInterval = n
		}
	}
}

// WithMinLength sets the minimum number of tokens a progression needs to be
// counted.
func WithMinLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.minLength = n
		}
	}
}

// WithTokenizer replaces the default chord tokenizer.
func WithTokenizer(t tokenizer.Tokenizer) Option {
	return func(o *options) {
		if t != nil {
			o.tokenizer = t
		}
	}
}

// WithLogger sets a custom logger.
// If not provided, slog.Default() will be used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func defaultOptions() options {
	return options{
		workers:          runtime.GOMAXPROCS(0),
		chunkSize:        DefaultChunkSize,
		progressInterval: DefaultProgressInterval,
		minLength:        DefaultMinLength,
		tokenizer:        tokenizer.New(),
		logger:           slog.Default(),
	}
}
