package text

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sevigo/chordgram/schema"
)

// maxLineSize bounds a single progression line.
const maxLineSize = 1 << 20

// Parse emits every non-blank line as a record. Lines starting with '#' are
// comments. Row numbers are line numbers.
func (p *TextParser) Parse(ctx context.Context, r io.Reader, path string, emit schema.EmitFunc) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	emitted := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line++

		trimmed := strings.TrimSpace(scanner.Text())
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if err := emit(schema.Record{Source: path, Row: line, Raw: trimmed}); err != nil {
			return err
		}
		emitted++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s at line %d: %w", path, line+1, err)
	}

	p.logger.Debug("Text corpus parsed", "path", path, "lines", line, "records", emitted)
	return nil
}
