package ngram

// Model holds the finalized probability tables and their raw context counts.
// It is never mutated after Finalize or a store load, so it can be shared by
// any number of concurrent readers.
type Model struct {
	tables     [MaxOrder]Table
	metadata   [MaxOrder]Metadata
	vocabulary [MaxOrder]int
	smoothing  string
}

// NewModel assembles a model from already finalized parts, indexed by
// order-1. It is used when loading a persisted artifact.
func NewModel(tables [MaxOrder]Table, metadata [MaxOrder]Metadata, smoothing string) *Model {
	m := &Model{smoothing: smoothing}
	for i := range tables {
		m.tables[i] = tables[i]
		if m.tables[i] == nil {
			m.tables[i] = make(Table)
		}
		m.metadata[i] = metadata[i]
		if m.metadata[i] == nil {
			m.metadata[i] = make(Metadata)
		}
		m.vocabulary[i] = tableVocabulary(m.tables[i])
	}
	return m
}

func tableVocabulary(t Table) int {
	seen := make(map[string]struct{})
	for _, row := range t {
		for tok := range row {
			seen[tok] = struct{}{}
		}
	}
	return len(seen)
}

// Table returns the probability table of order. Callers must not modify it.
func (m *Model) Table(order Order) Table {
	if !order.Valid() {
		return nil
	}
	return m.tables[order.index()]
}

// Metadata returns the raw context counts of order. Callers must not modify
// it.
func (m *Model) Metadata(order Order) Metadata {
	if !order.Valid() {
		return nil
	}
	return m.metadata[order.index()]
}

// ContextCount returns how often the context key was observed at order. An
// unknown context counts as zero.
func (m *Model) ContextCount(order Order, key string) int64 {
	if !order.Valid() {
		return 0
	}
	return m.metadata[order.index()][key]
}

// Distribution returns the next-token distribution of a context, or nil.
func (m *Model) Distribution(order Order, key string) map[string]float64 {
	if !order.Valid() {
		return nil
	}
	return m.tables[order.index()][key]
}

// VocabularySize returns the number of distinct next tokens at order.
func (m *Model) VocabularySize(order Order) int {
	if !order.Valid() {
		return 0
	}
	return m.vocabulary[order.index()]
}

// Smoothing names the smoothing applied at finalization, or "none".
func (m *Model) Smoothing() string {
	return m.smoothing
}
