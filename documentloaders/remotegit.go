package documentloaders

import (
	"context"
	"log/slog"

	"github.com/sevigo/chordgram/gitutil"
	"github.com/sevigo/chordgram/parsers"
	"github.com/sevigo/chordgram/schema"
)

// RemoteGitLoader clones a repository into a temporary directory and loads
// it as a corpus directory.
type RemoteGitLoader struct {
	RepoURL        string
	ParserRegistry parsers.ParserRegistry
	Logger         *slog.Logger
	CloneOptions   []gitutil.Option
}

// NewRemoteGit creates a loader for the git repository at repoURL.
func NewRemoteGit(repoURL string, registry parsers.ParserRegistry, logger *slog.Logger, cloneOpts ...gitutil.Option) *RemoteGitLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoteGitLoader{
		RepoURL:        repoURL,
		ParserRegistry: registry,
		Logger:         logger,
		CloneOptions:   cloneOpts,
	}
}

// Load clones the repository and emits its records. Sources are prefixed
// with the repository URL. The clone is removed when Load returns.
func (l *RemoteGitLoader) Load(ctx context.Context, emit schema.EmitFunc) error {
	cloner := gitutil.NewCloner(l.Logger, l.CloneOptions...)
	tempPath, cleanup, err := cloner.Clone(ctx, l.RepoURL)
	if err != nil {
		return err
	}
	defer cleanup()

	local := NewDirectory(tempPath, l.ParserRegistry, WithLogger(l.Logger))
	return local.Load(ctx, func(r schema.Record) error {
		r.Source = joinSource(l.RepoURL, r.Source)
		return emit(r)
	})
}
