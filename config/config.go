// Package config loads build and prediction settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/chordgram/builder"
	"github.com/sevigo/chordgram/interpolation"
	"github.com/sevigo/chordgram/ngram"
)

// ErrInvalidConfig is matched by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Smoothing method names accepted in Build.Smoothing.
const (
	SmoothingLaplace = "laplace"
	SmoothingAddK    = "add-k"
	SmoothingNone    = "none"
)

// Build configures corpus ingestion and model finalization.
type Build struct {
	// Input is a corpus file, a directory or a git repository URL.
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	// Column forces the CSV chord column.
	Column string `yaml:"column"`
	// Branch selects the branch when Input is a git repository.
	Branch string `yaml:"branch"`

	Workers          int     `yaml:"workers"`
	ChunkSize        int     `yaml:"chunk_size"`
	ProgressInterval int     `yaml:"progress_interval"`
	MinLength        int     `yaml:"min_length"`
	Smoothing        string  `yaml:"smoothing"`
	K                float64 `yaml:"k"`

	KeepSlashBass bool `yaml:"keep_slash_bass"`
	ExplicitMajor bool `yaml:"explicit_major"`
}

// Predict configures next-chord prediction.
type Predict struct {
	Model     string                `yaml:"model"`
	Weights   interpolation.Weights `yaml:"weights"`
	Threshold int64                 `yaml:"threshold"`
	Top       int                   `yaml:"top"`
}

// Config is the root of a configuration file.
type Config struct {
	LogLevel string  `yaml:"log_level"`
	Build    Build   `yaml:"build"`
	Predict  Predict `yaml:"predict"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "info",
		Build: Build{
			Output:           "model",
			ChunkSize:        builder.DefaultChunkSize,
			ProgressInterval: builder.DefaultProgressInterval,
			MinLength:        builder.DefaultMinLength,
			Smoothing:        SmoothingLaplace,
			K:                1,
		},
		Predict: Predict{
			Model:     "model",
			Weights:   interpolation.DefaultWeights(),
			Threshold: interpolation.DefaultThreshold,
			Top:       5,
		},
	}
}

// Load reads path. An empty path returns Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result. Unknown
// keys are rejected.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if err := c.Build.Validate(); err != nil {
		return err
	}
	return c.Predict.Validate()
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return level, nil
}

// Validate checks the build settings.
func (b Build) Validate() error {
	switch {
	case b.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	case b.ChunkSize < 0:
		return fmt.Errorf("%w: chunk_size must not be negative", ErrInvalidConfig)
	case b.ProgressInterval < 0:
		return fmt.Errorf("%w: progress_interval must not be negative", ErrInvalidConfig)
	case b.MinLength < 0:
		return fmt.Errorf("%w: min_length must not be negative", ErrInvalidConfig)
	}
	_, err := b.Smoother()
	return err
}

// Smoother returns the smoother named by Smoothing, or nil for "none".
func (b Build) Smoother() (ngram.Smoother, error) {
	switch strings.ToLower(strings.TrimSpace(b.Smoothing)) {
	case "", SmoothingLaplace:
		return ngram.NewAddKSmoother(1), nil
	case SmoothingAddK:
		if b.K <= 0 {
			return nil, fmt.Errorf("%w: add-k smoothing needs k > 0, got %v", ErrInvalidConfig, b.K)
		}
		return ngram.NewAddKSmoother(b.K), nil
	case SmoothingNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown smoothing %q", ErrInvalidConfig, b.Smoothing)
	}
}

// Validate checks the prediction settings.
func (p Predict) Validate() error {
	if err := p.Weights.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if p.Threshold <= 0 {
		return fmt.Errorf("%w: threshold must be positive", ErrInvalidConfig)
	}
	if p.Top < 0 {
		return fmt.Errorf("%w: top must not be negative", ErrInvalidConfig)
	}
	return nil
}
