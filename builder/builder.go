// Package builder turns a corpus into n-gram counts and a finalized model.
// Records are tokenized and counted by independent shards that are merged
// once the corpus is exhausted.
package builder

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sevigo/chordgram/documentloaders"
	"github.com/sevigo/chordgram/ngram"
	"github.com/sevigo/chordgram/schema"
)

// ErrNoLoader is returned when Aggregate is called without a loader.
var ErrNoLoader = errors.New("builder: nil corpus loader")

// Builder runs the counting pipeline.
type Builder struct {
	opts options
}

// New creates a builder.
func New(opts ...Option) *Builder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Builder{opts: o}
}

// Workers returns the configured shard count.
func (b *Builder) Workers() int {
	return b.opts.workers
}

// counters are shared between the reader and the shards.
type counters struct {
	total      atomic.Int64
	processed  atomic.Int64
	skipped    atomic.Int64
	collisions atomic.Int64
}

func (c *counters) stats() schema.Stats {
	return schema.Stats{
		Total:      c.total.Load(),
		Processed:  c.processed.Load(),
		Skipped:    c.skipped.Load(),
		Collisions: c.collisions.Load(),
	}
}

// Aggregate reads every record from loader and returns the merged counts.
// Unusable records are counted in the returned stats, never fatal. The
// result does not depend on the number of workers.
func (b *Builder) Aggregate(ctx context.Context, loader documentloaders.Loader) (*ngram.Aggregator, schema.Stats, error) {
	if loader == nil {
		return nil, schema.Stats{}, ErrNoLoader
	}

	logger := b.opts.logger
	start := time.Now()
	logger.Info("Starting corpus aggregation", "workers", b.opts.workers, "chunk_size", b.opts.chunkSize)

	var c counters
	g, gctx := errgroup.WithContext(ctx)
	chunks := make(chan []schema.Record, b.opts.workers)

	g.Go(func() error {
		defer close(chunks)
		return b.read(gctx, loader, chunks, &c)
	})

	shards := make([]*ngram.Aggregator, b.opts.workers)
	for i := range shards {
		shard := ngram.NewAggregator()
		shards[i] = shard
		g.Go(func() error {
			for batch := range chunks {
				for _, rec := range batch {
					if err := gctx.Err(); err != nil {
						return err
					}
					b.ingest(shard, rec, &c)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		stats := c.stats()
		logger.Error("Corpus aggregation failed", "error", err, "stats", stats.String())
		return nil, stats, fmt.Errorf("corpus aggregation: %w", err)
	}

	merged := ngram.NewAggregator()
	for _, shard := range shards {
		merged.Merge(shard)
	}

	stats := c.stats()
	logger.Info("Corpus aggregation completed",
		"total", stats.Total,
		"processed", stats.Processed,
		"skipped", stats.Skipped,
		"collisions", stats.Collisions,
		"unigram_contexts", merged.Len(ngram.Unigram),
		"bigram_contexts", merged.Len(ngram.Bigram),
		"trigram_contexts", merged.Len(ngram.Trigram),
		"duration", time.Since(start),
	)
	return merged, stats, nil
}

// read batches records from the loader into chunks.
func (b *Builder) read(ctx context.Context, loader documentloaders.Loader, chunks chan<- []schema.Record, c *counters) error {
	batch := make([]schema.Record, 0, b.opts.chunkSize)
	send := func() error {
		if len(batch) == 0 {
			return nil
		}
		select {
		case chunks <- batch:
		case <-ctx.Done():
			return ctx.Err()
		}
		batch = make([]schema.Record, 0, b.opts.chunkSize)
		return nil
	}

	err := loader.Load(ctx, func(rec schema.Record) error {
		n := c.total.Add(1)
		if b.opts.progressInterval > 0 && n%int64(b.opts.progressInterval) == 0 {
			b.opts.logger.Info("Corpus progress", "records", n, "source", rec.Source)
		}
		batch = append(batch, rec)
		if len(batch) >= b.opts.chunkSize {
			return send()
		}
		return nil
	})
	if err != nil {
		return err
	}
	return send()
}

func (b *Builder) ingest(shard *ngram.Aggregator, rec schema.Record, c *counters) {
	tokens := b.opts.tokenizer.Tokenize(rec.Raw)
	if len(tokens) < b.opts.minLength {
		c.skipped.Add(1)
		b.opts.logger.Debug("Skipping short progression", "record", rec.String(), "tokens", len(tokens))
		return
	}

	err := shard.Ingest(tokens)
	switch {
	case err == nil:
		c.processed.Add(1)
	case errors.Is(err, ngram.ErrDelimiterCollision):
		c.skipped.Add(1)
		c.collisions.Add(1)
		b.opts.logger.Warn("Skipping progression with delimiter collision", "record", rec.String(), "error", err)
	default:
		c.skipped.Add(1)
		b.opts.logger.Debug("Skipping malformed progression", "record", rec.String(), "error", err)
	}
}

// Build aggregates the corpus and finalizes it into a model. A nil finalizer
// uses Laplace smoothing.
func (b *Builder) Build(ctx context.Context, loader documentloaders.Loader, finalizer *ngram.Finalizer) (*ngram.Model, schema.Stats, error) {
	agg, stats, err := b.Aggregate(ctx, loader)
	if err != nil {
		return nil, stats, err
	}

	if finalizer == nil {
		finalizer = ngram.NewFinalizer(ngram.WithLogger(b.opts.logger))
	}
	model, err := finalizer.Finalize(ctx, agg)
	if err != nil {
		return nil, stats, fmt.Errorf("finalize model: %w", err)
	}
	return model, stats, nil
}
