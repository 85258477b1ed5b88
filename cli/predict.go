package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sevigo/chordgram/interpolation"
	"github.com/sevigo/chordgram/modelstore"
)

func newPredictCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict CHORD...",
		Short: "Predict the chord following a progression",
		Example: "  chordgram predict C G Am\n" +
			"  chordgram predict --model out/model --top 3 \"<verse_1> Dm7 G7\"",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPredict(cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringP("model", "m", "", "Model directory")
	flags.IntP("top", "n", 0, "Number of predictions to show (0 shows all)")
	flags.Int64("threshold", 0, "Minimum count of a strong context")
	flags.Bool("explain", false, "Show contexts, counts and adjusted weights")
	flags.Bool("json", false, "Print predictions as JSON")
	return cmd
}

func applyPredictFlags(cmd *cobra.Command, a *app) error {
	flags := cmd.Flags()
	p := &a.cfg.Predict
	var err error
	if flags.Changed("model") {
		p.Model, err = flags.GetString("model")
	}
	if err == nil && flags.Changed("top") {
		p.Top, err = flags.GetInt("top")
	}
	if err == nil && flags.Changed("threshold") {
		p.Threshold, err = flags.GetInt64("threshold")
	}
	if err != nil {
		return err
	}
	return p.Validate()
}

func (a *app) runPredict(cmd *cobra.Command, args []string) error {
	if err := applyPredictFlags(cmd, a); err != nil {
		return err
	}
	p := a.cfg.Predict

	progression := newTokenizer(a.cfg.Build).Tokenize(strings.Join(args, " "))
	if len(progression) == 0 {
		return fmt.Errorf("no valid chords in %q", strings.Join(args, " "))
	}

	model, manifest, err := modelstore.Load(p.Model)
	if err != nil {
		return err
	}
	a.logger.Debug("Model loaded", "path", p.Model, "id", manifest.ID, "smoothing", model.Smoothing())

	engine := interpolation.New(
		interpolation.WithWeights(p.Weights),
		interpolation.WithThreshold(p.Threshold),
	)
	result := engine.Blend(progression, model)
	predictions := result.Distribution().Top(p.Top)

	out := cmd.OutOrStdout()
	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Progression []string                   `json:"progression"`
			Weights     interpolation.Weights      `json:"weights"`
			Predictions []interpolation.Prediction `json:"predictions"`
		}{progression, result.Weights, predictions})
	}

	if explain, _ := cmd.Flags().GetBool("explain"); explain {
		renderExplain(out, result)
		fmt.Fprintln(out)
	}

	if len(predictions) == 0 {
		fmt.Fprintf(out, "no prediction for %s\n", strings.Join(progression, " "))
		return nil
	}

	table := newTable(out, []string{"RANK", "CHORD", "PROBABILITY"})
	for i, pred := range predictions {
		table.Append([]string{
			strconv.Itoa(i + 1),
			pred.Token,
			strconv.FormatFloat(pred.Probability, 'f', 4, 64),
		})
	}
	table.Render()
	return nil
}

func renderExplain(w io.Writer, result interpolation.Result) {
	table := newTable(w, []string{"ORDER", "CONTEXT", "COUNT", "WEIGHT", "USED"})
	for i, key := range result.Contexts {
		if key == "" {
			key = "-"
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			key,
			strconv.FormatInt(result.Counts[i], 10),
			strconv.FormatFloat(result.Weights.Lambda(i+1), 'f', 4, 64),
			strconv.FormatBool(result.Included[i]),
		})
	}
	table.Render()
}
