package yaml

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/chordgram/schema"
)

// ErrUnsupportedLayout is returned for documents that hold no recognizable
// list of progressions.
var ErrUnsupportedLayout = errors.New("unsupported YAML corpus layout")

// Parse decodes every document in the stream and emits one record per song.
// A document is either a list of songs or a mapping with a songs list under
// one of the collection keys. A song is a scalar string, a list of chord
// scalars or a mapping with a chords key. Row is the song's line in the file.
func (p *YamlParser) Parse(ctx context.Context, r io.Reader, path string, emit schema.EmitFunc) error {
	decoder := yaml.NewDecoder(r)

	docs := 0
	emitted := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var doc yaml.Node
		err := decoder.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to decode YAML document %d in %s: %w", docs+1, path, err)
		}
		docs++

		songs, err := p.songList(&doc)
		if err != nil {
			return fmt.Errorf("%s document %d: %w", path, docs, err)
		}
		if songs == nil {
			continue
		}

		for _, song := range songs.Content {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, ok := p.songChords(song)
			if !ok {
				p.logger.Warn("Skipping YAML song without chords", "path", path, "line", song.Line)
				continue
			}
			if err := emit(schema.Record{Source: path, Row: song.Line, Raw: raw}); err != nil {
				return err
			}
			emitted++
		}
	}

	p.logger.Debug("YAML corpus parsed", "path", path, "documents", docs, "records", emitted)
	return nil
}

// songList finds the sequence node holding songs. A nil result with no error
// means an empty document.
func (p *YamlParser) songList(doc *yaml.Node) (*yaml.Node, error) {
	node := doc
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, nil
		}
		node = node.Content[0]
	}

	switch node.Kind {
	case yaml.SequenceNode:
		return node, nil
	case yaml.MappingNode:
		for _, key := range collectionKeys {
			if value := mappingValue(node, key); value != nil && value.Kind == yaml.SequenceNode {
				return value, nil
			}
		}
		// A single song written as a mapping.
		if _, ok := p.songChords(node); ok {
			return &yaml.Node{Kind: yaml.SequenceNode, Content: []*yaml.Node{node}}, nil
		}
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
	}

	return nil, fmt.Errorf("%w at line %d", ErrUnsupportedLayout, node.Line)
}

func (p *YamlParser) songChords(song *yaml.Node) (string, bool) {
	switch song.Kind {
	case yaml.ScalarNode:
		return song.Value, true
	case yaml.SequenceNode:
		return joinScalars(song)
	case yaml.MappingNode:
		for _, key := range DefaultKeys {
			value := mappingValue(song, key)
			if value == nil {
				continue
			}
			switch value.Kind {
			case yaml.ScalarNode:
				return value.Value, true
			case yaml.SequenceNode:
				return joinScalars(value)
			}
		}
	}
	return "", false
}

func joinScalars(seq *yaml.Node) (string, bool) {
	parts := make([]string, 0, len(seq.Content))
	for _, item := range seq.Content {
		if item.Kind != yaml.ScalarNode {
			return "", false
		}
		parts = append(parts, item.Value)
	}
	return strings.Join(parts, " "), true
}

func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if strings.EqualFold(mapping.Content[i].Value, key) {
			return mapping.Content[i+1]
		}
	}
	return nil
}
