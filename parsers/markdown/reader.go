package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/sevigo/chordgram/schema"
)

// Parse emits one record per non-blank line of every chord block. Row is
// the line number in the file. Lines starting with '#' inside a block are
// comments.
func (p *MarkdownParser) Parse(ctx context.Context, r io.Reader, path string, emit schema.EmitFunc) error {
	source, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	root := p.markdown.Parser().Parse(text.NewReader(source))

	blocks := 0
	emitted := 0
	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if err := ctx.Err(); err != nil {
			return ast.WalkStop, err
		}

		block, ok := n.(*ast.FencedCodeBlock)
		if !ok || !isChordBlock(string(block.Language(source))) {
			return ast.WalkContinue, nil
		}
		blocks++

		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			line := strings.TrimSpace(string(seg.Value(source)))
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			row := bytes.Count(source[:seg.Start], []byte("\n")) + 1
			if err := emit(schema.Record{Source: path, Row: row, Raw: line}); err != nil {
				return ast.WalkStop, err
			}
			emitted++
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return err
	}

	p.logger.Debug("Markdown corpus parsed", "path", path, "blocks", blocks, "records", emitted)
	return nil
}
