// Package modelstore persists finalized n-gram models as a directory of JSON
// files and loads them back with validation.
package modelstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/sevigo/chordgram/ngram"
)

const (
	// MetadataFile holds the raw context counts of every order.
	MetadataFile = "metadata.json"
	// ManifestFile describes the build. It is optional when loading.
	ManifestFile = "manifest.json"

	unknownSmoothing = "unknown"
)

var (
	// ErrMissingTable is matched when a required file is absent.
	ErrMissingTable = errors.New("missing model file")
	// ErrMalformedTable is matched when a file is not a valid model part.
	ErrMalformedTable = errors.New("malformed model file")
)

// LoadError reports which file of a model directory failed to load.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("modelstore: %s: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// TableFile returns the file name of the probability table of order.
func TableFile(order ngram.Order) string {
	return order.String() + ".json"
}

// metadataDoc is the on-disk shape of MetadataFile.
type metadataDoc struct {
	Unigram ngram.Metadata `json:"unigram_counts"`
	Bigram  ngram.Metadata `json:"bigram_counts"`
	Trigram ngram.Metadata `json:"trigram_counts"`
}

func (d *metadataDoc) byOrder() [ngram.MaxOrder]ngram.Metadata {
	return [ngram.MaxOrder]ngram.Metadata{d.Unigram, d.Bigram, d.Trigram}
}

// Save writes model and manifest into dir, creating it if needed. Every file
// goes through a temporary file and a rename, so readers never observe a
// partial file.
func Save(dir string, model *ngram.Model, manifest Manifest) error {
	if model == nil {
		return errors.New("modelstore: nil model")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("modelstore: create %s: %w", dir, err)
	}

	for _, order := range ngram.Orders {
		if err := writeJSON(dir, TableFile(order), model.Table(order), false); err != nil {
			return err
		}
	}

	meta := metadataDoc{
		Unigram: model.Metadata(ngram.Unigram),
		Bigram:  model.Metadata(ngram.Bigram),
		Trigram: model.Metadata(ngram.Trigram),
	}
	if err := writeJSON(dir, MetadataFile, meta, false); err != nil {
		return err
	}
	return writeJSON(dir, ManifestFile, manifest, true)
}

func writeJSON(dir, name string, v any, indent bool) error {
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return fmt.Errorf("modelstore: create temp for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("modelstore: encode %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("modelstore: sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("modelstore: close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("modelstore: rename %s: %w", name, err)
	}
	return nil
}

// Load reads a model directory written by Save.
func Load(dir string) (*ngram.Model, Manifest, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadFS reads a model from the root of fsys. Every table must be valid JSON
// of the right shape, hold probabilities in [0, 1], use context keys with
// exactly as many tokens as its order, and have a metadata count for every
// context. A missing manifest is not an error.
func LoadFS(fsys fs.FS) (*ngram.Model, Manifest, error) {
	var meta metadataDoc
	if err := readJSON(fsys, MetadataFile, &meta); err != nil {
		return nil, Manifest{}, err
	}
	metadata := meta.byOrder()

	var tables [ngram.MaxOrder]ngram.Table
	for i, order := range ngram.Orders {
		name := TableFile(order)
		var table ngram.Table
		if err := readJSON(fsys, name, &table); err != nil {
			return nil, Manifest{}, err
		}
		if err := validateTable(order, table, metadata[i]); err != nil {
			return nil, Manifest{}, &LoadError{File: name, Err: err}
		}
		tables[i] = table
	}

	manifest := Manifest{Smoothing: unknownSmoothing}
	if err := readJSON(fsys, ManifestFile, &manifest); err != nil && !errors.Is(err, ErrMissingTable) {
		return nil, Manifest{}, err
	}

	return ngram.NewModel(tables, metadata, manifest.Smoothing), manifest, nil
}

func readJSON(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return &LoadError{File: name, Err: ErrMissingTable}
	}
	if err != nil {
		return &LoadError{File: name, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &LoadError{File: name, Err: fmt.Errorf("%w: %v", ErrMalformedTable, err)}
	}
	return nil
}

func validateTable(order ngram.Order, table ngram.Table, metadata ngram.Metadata) error {
	for key, dist := range table {
		tokens := ngram.SplitKey(key)
		if len(tokens) != int(order) {
			return fmt.Errorf("%w: context %q has %d tokens, want %d", ErrMalformedTable, key, len(tokens), int(order))
		}
		for _, tok := range tokens {
			if tok == "" {
				return fmt.Errorf("%w: context %q has an empty token", ErrMalformedTable, key)
			}
		}
		if _, ok := metadata[key]; !ok {
			return fmt.Errorf("%w: context %q has no %s count", ErrMalformedTable, key, order)
		}
		for tok, p := range dist {
			if math.IsNaN(p) || p < 0 || p > 1 {
				return fmt.Errorf("%w: P(%s | %s) = %v is not a probability", ErrMalformedTable, tok, key, p)
			}
		}
	}
	return nil
}
