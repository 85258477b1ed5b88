package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sevigo/chordgram/modelstore"
	"github.com/sevigo/chordgram/ngram"
)

func newStatsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [model]",
		Short: "Show what a saved model contains",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.Predict.Model
			if len(args) == 1 {
				dir = args[0]
			}
			top, err := cmd.Flags().GetInt("contexts")
			if err != nil {
				return err
			}

			model, manifest, err := modelstore.Load(dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if manifest.ID != "" {
				fmt.Fprintf(out, "id:        %s\ncreated:   %s\n", manifest.ID, manifest.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			fmt.Fprintf(out, "smoothing: %s\n\n", model.Smoothing())
			if manifest.ID != "" {
				renderStats(out, manifest.Stats)
				fmt.Fprintln(out)
			}
			renderOrders(out, model)

			if top > 0 {
				fmt.Fprintln(out)
				table := newTable(out, []string{"ORDER", "CONTEXT", "COUNT"})
				for _, order := range ngram.Orders {
					for _, key := range topContexts(model, order, top) {
						table.Append([]string{
							order.String(),
							strings.ReplaceAll(key, ngram.Delimiter, " "),
							strconv.FormatInt(model.ContextCount(order, key), 10),
						})
					}
				}
				table.Render()
			}
			return nil
		},
	}

	cmd.Flags().Int("contexts", 0, "Also list the N most observed contexts per order")
	return cmd
}

// topContexts returns the n most observed contexts of order.
func topContexts(model *ngram.Model, order ngram.Order, n int) []string {
	meta := model.Metadata(order)
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if meta[keys[i]] != meta[keys[j]] {
			return meta[keys[i]] > meta[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
