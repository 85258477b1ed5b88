package ngram

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

const smoothingNone = "none"

// Finalizer turns merged counts into a Model.
type Finalizer struct {
	smoother Smoother
	logger   *slog.Logger
}

// FinalizerOption configures a Finalizer.
type FinalizerOption func(*Finalizer)

// WithSmoother sets the smoothing method. The default is Laplace.
func WithSmoother(s Smoother) FinalizerOption {
	return func(f *Finalizer) {
		f.smoother = s
	}
}

// WithoutSmoothing produces plain maximum-likelihood tables.
func WithoutSmoothing() FinalizerOption {
	return func(f *Finalizer) {
		f.smoother = nil
	}
}

// WithLogger sets the logger. If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) FinalizerOption {
	return func(f *Finalizer) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFinalizer creates a finalizer that applies Laplace smoothing unless
// configured otherwise.
func NewFinalizer(opts ...FinalizerOption) *Finalizer {
	f := &Finalizer{
		smoother: NewAddKSmoother(1),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SmoothingName returns the name recorded in the model.
func (f *Finalizer) SmoothingName() string {
	if f.smoother == nil {
		return smoothingNone
	}
	return f.smoother.Name()
}

// Finalize computes the three probability tables and their metadata. The
// orders are independent and are processed in parallel; the aggregator is
// only read.
func (f *Finalizer) Finalize(ctx context.Context, agg *Aggregator) (*Model, error) {
	model := &Model{smoothing: f.SmoothingName()}

	g, gctx := errgroup.WithContext(ctx)
	for _, order := range Orders {
		order := order
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			counts := agg.counters(order)
			var table Table
			if f.smoother != nil {
				table = ApplySmoothing(counts, f.smoother)
			} else {
				table = Normalize(counts)
			}
			i := order.index()
			model.tables[i] = table
			model.metadata[i] = counts.Totals()
			model.vocabulary[i] = len(Vocabulary(counts))
			f.logger.Debug("Finalized order", "order", order.String(), "contexts", len(table), "vocabulary", model.vocabulary[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	f.logger.Info("Model finalized",
		"smoothing", model.smoothing,
		"unigram_contexts", len(model.tables[0]),
		"bigram_contexts", len(model.tables[1]),
		"trigram_contexts", len(model.tables[2]),
	)
	return model, nil
}
