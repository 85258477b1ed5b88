package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/sevigo/chordgram/builder"
	"github.com/sevigo/chordgram/config"
	"github.com/sevigo/chordgram/documentloaders"
	"github.com/sevigo/chordgram/gitutil"
	"github.com/sevigo/chordgram/modelstore"
	"github.com/sevigo/chordgram/ngram"
	"github.com/sevigo/chordgram/parsers"
	"github.com/sevigo/chordgram/parsers/csv"
	"github.com/sevigo/chordgram/parsers/json"
	"github.com/sevigo/chordgram/parsers/markdown"
	"github.com/sevigo/chordgram/parsers/text"
	"github.com/sevigo/chordgram/parsers/yaml"
	"github.com/sevigo/chordgram/schema"
	"github.com/sevigo/chordgram/tokenizer"
)

// stdinInput selects standard input as the corpus.
const stdinInput = "-"

func newBuildCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [corpus]",
		Short: "Build a model from a corpus file, directory or git repository",
		Long: "Build counts every chord transition of the corpus, finalizes the\n" +
			"probability tables and writes them to the output directory. Use - to\n" +
			"read one progression per line from standard input.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBuild(cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringP("output", "o", "", "Model output directory")
	flags.Int("workers", 0, "Counting shards (default GOMAXPROCS)")
	flags.Int("chunk-size", 0, "Records per shard batch")
	flags.Int("min-length", 0, "Shortest progression that is counted")
	flags.String("smoothing", "", "Smoothing method (laplace, add-k, none)")
	flags.Float64("k", 0, "Pseudo-count for add-k smoothing")
	flags.String("column", "", "CSV column holding the chords")
	flags.String("branch", "", "Branch to clone when the corpus is a git repository")
	flags.Bool("keep-slash-bass", false, "Keep slash chord bass notes")
	return cmd
}

// applyBuildFlags overrides configuration values with flags set on the
// command line.
func applyBuildFlags(cmd *cobra.Command, b *config.Build) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("output") {
		b.Output, err = flags.GetString("output")
	}
	if err == nil && flags.Changed("workers") {
		b.Workers, err = flags.GetInt("workers")
	}
	if err == nil && flags.Changed("chunk-size") {
		b.ChunkSize, err = flags.GetInt("chunk-size")
	}
	if err == nil && flags.Changed("min-length") {
		b.MinLength, err = flags.GetInt("min-length")
	}
	if err == nil && flags.Changed("smoothing") {
		b.Smoothing, err = flags.GetString("smoothing")
	}
	if err == nil && flags.Changed("k") {
		b.K, err = flags.GetFloat64("k")
	}
	if err == nil && flags.Changed("column") {
		b.Column, err = flags.GetString("column")
	}
	if err == nil && flags.Changed("branch") {
		b.Branch, err = flags.GetString("branch")
	}
	if err == nil && flags.Changed("keep-slash-bass") {
		b.KeepSlashBass, err = flags.GetBool("keep-slash-bass")
	}
	if err != nil {
		return err
	}
	return b.Validate()
}

func (a *app) runBuild(cmd *cobra.Command, args []string) error {
	b := a.cfg.Build
	if len(args) == 1 {
		b.Input = args[0]
	}
	if err := applyBuildFlags(cmd, &b); err != nil {
		return err
	}
	if b.Input == "" {
		return fmt.Errorf("%w: no corpus given", config.ErrInvalidConfig)
	}

	smoother, err := b.Smoother()
	if err != nil {
		return err
	}
	finalizerOpts := []ngram.FinalizerOption{ngram.WithLogger(a.logger)}
	if smoother == nil {
		finalizerOpts = append(finalizerOpts, ngram.WithoutSmoothing())
	} else {
		finalizerOpts = append(finalizerOpts, ngram.WithSmoother(smoother))
	}

	registry, err := newRegistry(a.logger, b.Column)
	if err != nil {
		return err
	}
	loader, err := newLoader(b, registry, cmd.InOrStdin(), a.logger)
	if err != nil {
		return err
	}

	bld := builder.New(
		builder.WithWorkers(b.Workers),
		builder.WithChunkSize(b.ChunkSize),
		builder.WithProgressInterval(b.ProgressInterval),
		builder.WithMinLength(b.MinLength),
		builder.WithTokenizer(newTokenizer(b)),
		builder.WithLogger(a.logger),
	)

	model, stats, err := bld.Build(cmd.Context(), loader, ngram.NewFinalizer(finalizerOpts...))
	if err != nil {
		return err
	}

	manifest := modelstore.NewManifest(model, stats)
	if err := modelstore.Save(b.Output, model, manifest); err != nil {
		return err
	}
	a.logger.Info("Model saved", "path", b.Output, "id", manifest.ID)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "model %s written to %s\n\n", manifest.ID, b.Output)
	renderStats(out, stats)
	fmt.Fprintln(out)
	renderOrders(out, model)
	return nil
}

func newTokenizer(b config.Build) tokenizer.Tokenizer {
	var opts []tokenizer.Option
	if b.KeepSlashBass {
		opts = append(opts, tokenizer.WithKeepSlashBass())
	}
	if b.ExplicitMajor {
		opts = append(opts, tokenizer.WithExplicitMajor())
	}
	return tokenizer.New(opts...)
}

// newRegistry returns the built-in parsers, with the CSV column forced when
// column is set.
func newRegistry(logger *slog.Logger, column string) (parsers.ParserRegistry, error) {
	if column == "" {
		return parsers.RegisterCorpusParsers(logger)
	}

	registry := parsers.NewRegistry(logger)
	for _, p := range []schema.CorpusParser{
		csv.New(logger.With("parser", "csv"), csv.WithColumn(column)),
		json.NewJSONParser(logger.With("parser", "json")),
		markdown.NewMarkdownParser(logger.With("parser", "markdown")),
		text.NewTextParser(logger.With("parser", "text")),
		yaml.NewYamlParser(logger.With("parser", "yaml")),
	} {
		if err := registry.RegisterParser(p); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func newLoader(b config.Build, registry parsers.ParserRegistry, stdin io.Reader, logger *slog.Logger) (documentloaders.Loader, error) {
	input := b.Input
	if input == stdinInput {
		parser, err := registry.GetParser("text")
		if err != nil {
			return nil, err
		}
		return documentloaders.NewReader(stdin, "stdin", parser, documentloaders.WithLogger(logger)), nil
	}

	if isRemoteRepo(input) {
		return documentloaders.NewRemoteGit(input, registry, logger, gitutil.WithBranch(b.Branch)), nil
	}

	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("corpus %s: %w", input, err)
	}
	if info.IsDir() {
		return documentloaders.NewDirectory(input, registry, documentloaders.WithLogger(logger)), nil
	}
	return documentloaders.NewFile(input, registry, documentloaders.WithLogger(logger)), nil
}

func isRemoteRepo(input string) bool {
	for _, prefix := range []string{"https://", "http://", "ssh://", "git://", "git@"} {
		if strings.HasPrefix(input, prefix) {
			return true
		}
	}
	return false
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	return table
}

func renderStats(w io.Writer, stats schema.Stats) {
	table := newTable(w, []string{"RECORDS", "PROCESSED", "SKIPPED", "COLLISIONS"})
	table.Append([]string{
		strconv.FormatInt(stats.Total, 10),
		strconv.FormatInt(stats.Processed, 10),
		strconv.FormatInt(stats.Skipped, 10),
		strconv.FormatInt(stats.Collisions, 10),
	})
	table.Render()
}

func renderOrders(w io.Writer, model *ngram.Model) {
	table := newTable(w, []string{"ORDER", "CONTEXTS", "VOCABULARY", "OBSERVATIONS"})
	for _, order := range ngram.Orders {
		var observations int64
		for _, n := range model.Metadata(order) {
			observations += n
		}
		table.Append([]string{
			order.String(),
			strconv.Itoa(len(model.Table(order))),
			strconv.Itoa(model.VocabularySize(order)),
			strconv.FormatInt(observations, 10),
		})
	}
	table.Render()
}
