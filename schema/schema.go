package schema

import "fmt"

// Record is one raw progression read from a corpus, before tokenization.
type Record struct {
	// Source identifies where the record came from, usually a file path.
	Source string
	// Row is the 1-based position of the record inside its source.
	Row int
	// Raw is the unparsed chord string.
	Raw string
}

func (r Record) String() string {
	return fmt.Sprintf("%s:%d", r.Source, r.Row)
}

// EmitFunc receives records as a parser or loader produces them. Returning
// an error stops production and the error is passed back to the caller.
type EmitFunc func(Record) error

// Stats summarizes one corpus build.
type Stats struct {
	// Total is the number of records read.
	Total int64 `json:"total" yaml:"total"`
	// Processed is the number of records that reached the aggregator.
	Processed int64 `json:"processed" yaml:"processed"`
	// Skipped counts empty, too short or otherwise unusable records.
	Skipped int64 `json:"skipped" yaml:"skipped"`
	// Collisions counts records rejected because a token contained the
	// context delimiter. They are included in Skipped.
	Collisions int64 `json:"collisions" yaml:"collisions"`
}

func (s Stats) String() string {
	return fmt.Sprintf("total=%d processed=%d skipped=%d collisions=%d",
		s.Total, s.Processed, s.Skipped, s.Collisions)
}

// Add returns the field-wise sum of s and other.
func (s Stats) Add(other Stats) Stats {
	return Stats{
		Total:      s.Total + other.Total,
		Processed:  s.Processed + other.Processed,
		Skipped:    s.Skipped + other.Skipped,
		Collisions: s.Collisions + other.Collisions,
	}
}
