package documentloaders

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/sevigo/chordgram/parsers"
	"github.com/sevigo/chordgram/schema"
)

// maxFileSize skips files that are unlikely to be chord corpora.
const maxFileSize = 512 * 1024 * 1024

// DirectoryLoader walks a directory tree and parses every file a registered
// parser can handle. Files are visited in lexical order.
type DirectoryLoader struct {
	fsys     fs.FS
	root     string
	registry parsers.ParserRegistry
	opts     options
}

// NewDirectory creates a loader for the directory tree at root.
func NewDirectory(root string, registry parsers.ParserRegistry, opts ...Option) *DirectoryLoader {
	loader := NewDirectoryFS(os.DirFS(root), registry, opts...)
	loader.root = root
	return loader
}

// NewDirectoryFS creates a loader over an arbitrary file system.
func NewDirectoryFS(fsys fs.FS, registry parsers.ParserRegistry, opts ...Option) *DirectoryLoader {
	return &DirectoryLoader{
		fsys:     fsys,
		root:     ".",
		registry: registry,
		opts:     newOptions(opts),
	}
}

// Load walks the tree and emits records from every supported file. Record
// sources are paths relative to the root. A file that fails to parse is
// logged and skipped; an error from emit or the context stops the walk.
func (l *DirectoryLoader) Load(ctx context.Context, emit schema.EmitFunc) error {
	logger := l.opts.logger
	logger.Info("Starting corpus directory load", "path", l.root)

	files := 0
	skipped := 0
	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			logger.Warn("Skipping unreadable path", "path", p, "error", err)
			return nil
		}

		if d.IsDir() {
			if p != "." && shouldSkipDir(d.Name()) {
				logger.Debug("Skipping excluded directory", "path", p)
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logger.Warn("Could not get file info, skipping", "path", p, "error", err)
			return nil
		}
		if info.Size() > maxFileSize {
			logger.Debug("Skipping oversized file", "path", p, "size", info.Size())
			skipped++
			return nil
		}

		parser, err := l.registry.GetParserForFile(p, info)
		if err != nil {
			logger.Debug("No corpus parser for file", "path", p)
			skipped++
			return nil
		}

		if err := l.parseFile(ctx, p, parser, emit); err != nil {
			return err
		}
		files++
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Corpus directory load completed", "path", l.root, "files", files, "skipped", skipped)
	return nil
}

func (l *DirectoryLoader) parseFile(ctx context.Context, p string, parser schema.CorpusParser, emit schema.EmitFunc) error {
	f, err := l.fsys.Open(p)
	if err != nil {
		l.opts.logger.Warn("Cannot open file, skipping", "path", p, "error", err)
		return nil
	}
	defer f.Close()

	tracked, emitErr := trackEmit(emit)
	err = parser.Parse(ctx, f, p, tracked)
	switch {
	case err == nil:
		return nil
	case *emitErr != nil:
		return *emitErr
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}

	l.opts.logger.Warn("Failed to parse corpus file, skipping", "path", p, "parser", parser.Name(), "error", err)
	return nil
}

// shouldSkipDir excludes hidden, vendored and build directories.
func shouldSkipDir(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return true
	}
	skipDirs := []string{"vendor", "node_modules", "__pycache__", "build", "dist", "target", "bin"}
	return slices.Contains(skipDirs, name)
}

// joinSource prefixes a record source with its origin.
func joinSource(origin, source string) string {
	if origin == "" {
		return source
	}
	return strings.TrimSuffix(origin, "/") + "/" + path.Clean(source)
}
