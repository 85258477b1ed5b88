package modelstore

import (
	"time"

	"github.com/google/uuid"

	"github.com/sevigo/chordgram/ngram"
	"github.com/sevigo/chordgram/schema"
)

// Manifest describes one persisted model.
type Manifest struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Smoothing string    `json:"smoothing"`
	// Vocabulary is the number of distinct next tokens per order name.
	Vocabulary map[string]int `json:"vocabulary"`
	// Contexts is the number of distinct contexts per order name.
	Contexts map[string]int `json:"contexts"`
	Stats    schema.Stats   `json:"stats"`
}

// NewManifest describes model and the build that produced it.
func NewManifest(model *ngram.Model, stats schema.Stats) Manifest {
	m := Manifest{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Smoothing:  model.Smoothing(),
		Vocabulary: make(map[string]int, ngram.MaxOrder),
		Contexts:   make(map[string]int, ngram.MaxOrder),
		Stats:      stats,
	}
	for _, order := range ngram.Orders {
		m.Vocabulary[order.String()] = model.VocabularySize(order)
		m.Contexts[order.String()] = len(model.Table(order))
	}
	return m
}
