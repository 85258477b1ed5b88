// Package cli implements the chordgram command line: building a model from
// a corpus, predicting the next chord and inspecting a saved model.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sevigo/chordgram/config"
)

// app carries state shared by the subcommands.
type app struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger *slog.Logger
}

// NewRootCommand returns the chordgram command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "chordgram",
		Short:         "Next-chord prediction with interpolated n-gram models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newBuildCommand(a),
		newPredictCommand(a),
		newStatsCommand(a),
	)
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	a.logger.Debug("Configuration loaded", "path", a.configPath, "level", level.String())
	return nil
}

// Execute runs the root command and returns its error.
func Execute() error {
	if err := NewRootCommand().Execute(); err != nil {
		return fmt.Errorf("chordgram: %w", err)
	}
	return nil
}
