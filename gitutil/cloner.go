// Package gitutil clones corpus repositories into temporary directories.
package gitutil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrEmptyURL is returned when Clone is called without a repository URL.
var ErrEmptyURL = errors.New("repository URL is empty")

// Cloner handles the temporary cloning of remote Git repositories.
type Cloner struct {
	Logger *slog.Logger
	Depth  int
	Branch string
}

// Option configures a Cloner.
type Option func(*Cloner)

// WithDepth limits the clone history. Zero clones the full history.
func WithDepth(depth int) Option {
	return func(c *Cloner) {
		if depth >= 0 {
			c.Depth = depth
		}
	}
}

// WithBranch checks out the named branch instead of the remote HEAD.
func WithBranch(branch string) Option {
	return func(c *Cloner) {
		c.Branch = strings.TrimSpace(branch)
	}
}

// NewCloner creates a new Cloner that makes shallow clones by default.
func NewCloner(logger *slog.Logger, opts ...Option) *Cloner {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cloner{Logger: logger, Depth: 1}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CloneOptions returns the go-git options used for repoURL.
func (c *Cloner) CloneOptions(repoURL string) *git.CloneOptions {
	opts := &git.CloneOptions{
		URL:   repoURL,
		Depth: c.Depth,
	}
	if c.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(c.Branch)
		opts.SingleBranch = true
	}
	return opts
}

// Clone checks out a remote repository to a temporary local directory. The
// returned cleanup func removes it.
func (c *Cloner) Clone(ctx context.Context, repoURL string) (string, func(), error) {
	if strings.TrimSpace(repoURL) == "" {
		return "", nil, ErrEmptyURL
	}

	tempPath, err := os.MkdirTemp("", "chordgram-corpus-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	c.Logger.InfoContext(ctx, "Cloning corpus repository", "url", repoURL, "path", tempPath, "depth", c.Depth, "branch", c.Branch)

	cleanupFunc := func() {
		c.Logger.Debug("Cleaning up temporary repository", "path", tempPath)
		_ = os.RemoveAll(tempPath)
	}

	if _, err := git.PlainCloneContext(ctx, tempPath, false, c.CloneOptions(repoURL)); err != nil {
		cleanupFunc()
		return "", nil, fmt.Errorf("failed to clone repo '%s': %w", repoURL, err)
	}

	c.Logger.InfoContext(ctx, "Repository cloned successfully", "url", repoURL)
	return tempPath, cleanupFunc, nil
}
