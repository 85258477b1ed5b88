package json

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sevigo/chordgram/schema"
)

// ErrUnsupportedLayout is returned when a JSON document holds no array of
// songs.
var ErrUnsupportedLayout = errors.New("unsupported JSON corpus layout")

// Parse streams songs out of r. A .json file holds either an array of songs
// or an object with the array under a collection key; .jsonl and .ndjson
// files hold one song per value. A song is a string, an array of chord
// strings or an object with a chords key. Row is the 1-based song index.
// Songs of an unknown shape are logged and skipped.
func (p *JSONParser) Parse(ctx context.Context, r io.Reader, path string, emit schema.EmitFunc) error {
	dec := json.NewDecoder(r)
	s := &songStream{parser: p, ctx: ctx, dec: dec, path: path, emit: emit}

	var err error
	if isLines(path) {
		err = s.values()
	} else {
		err = s.document()
	}
	if err != nil {
		return err
	}

	p.logger.Debug("JSON corpus parsed", "path", path, "songs", s.row, "records", s.emitted)
	return nil
}

type songStream struct {
	parser  *JSONParser
	ctx     context.Context
	dec     *json.Decoder
	path    string
	emit    schema.EmitFunc
	row     int
	emitted int
}

// values decodes a stream of top-level values.
func (s *songStream) values() error {
	for {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		var raw json.RawMessage
		err := s.dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to decode %s value %d: %w", s.path, s.row+1, err)
		}
		if err := s.song(raw); err != nil {
			return err
		}
	}
}

// document streams the elements of the top-level array, or of the
// collection array inside a top-level object.
func (s *songStream) document() error {
	tok, err := s.dec.Token()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", s.path, err)
	}

	switch tok {
	case json.Delim('['):
		return s.array()
	case json.Delim('{'):
		for s.dec.More() {
			keyTok, err := s.dec.Token()
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", s.path, err)
			}
			key, _ := keyTok.(string)
			if isCollectionKey(key) {
				open, err := s.dec.Token()
				if err != nil {
					return fmt.Errorf("failed to decode %s: %w", s.path, err)
				}
				if open != json.Delim('[') {
					return fmt.Errorf("%s: %w: %q is not an array", s.path, ErrUnsupportedLayout, key)
				}
				return s.array()
			}
			var skip json.RawMessage
			if err := s.dec.Decode(&skip); err != nil {
				return fmt.Errorf("failed to decode %s: %w", s.path, err)
			}
		}
	}
	return fmt.Errorf("%s: %w", s.path, ErrUnsupportedLayout)
}

func (s *songStream) array() error {
	for s.dec.More() {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		var raw json.RawMessage
		if err := s.dec.Decode(&raw); err != nil {
			return fmt.Errorf("failed to decode %s song %d: %w", s.path, s.row+1, err)
		}
		if err := s.song(raw); err != nil {
			return err
		}
	}
	if _, err := s.dec.Token(); err != nil {
		return fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	return nil
}

func (s *songStream) song(raw json.RawMessage) error {
	s.row++
	chords, ok := songChords(raw)
	if !ok {
		s.parser.logger.Warn("Skipping JSON song without chords", "path", s.path, "row", s.row)
		return nil
	}
	if err := s.emit(schema.Record{Source: s.path, Row: s.row, Raw: chords}); err != nil {
		return err
	}
	s.emitted++
	return nil
}

func songChords(raw json.RawMessage) (string, bool) {
	if chords, ok := chordValue(raw); ok {
		return chords, true
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", false
	}
	for _, key := range DefaultKeys {
		for k, v := range obj {
			if strings.EqualFold(k, key) {
				return chordValue(v)
			}
		}
	}
	return "", false
}

// chordValue accepts a string or an array of strings.
func chordValue(raw json.RawMessage) (string, bool) {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str, true
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, " "), true
	}
	return "", false
}

func isCollectionKey(key string) bool {
	for _, k := range collectionKeys {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}
