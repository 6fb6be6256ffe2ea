package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/LeoCore/internal/storage"
)

func newRecentCommand(ctx *commandContext) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show recently recorded scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return fmt.Errorf("--limit must be at least 1")
			}
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			if a.Store == nil {
				return errNoStore
			}

			entries, err := a.Store.RecentScores(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read recent scores: %w", err)
			}

			if asJSON {
				if entries == nil {
					entries = []storage.ScoreEntry{}
				}
				return writeJSON(cmd, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No scores recorded yet")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderScores(entries))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", storage.DefaultRecentLimit, "Number of scores to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the scores as JSON")

	return cmd
}

func renderScores(entries []storage.ScoreEntry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			e.Timestamp.Local().Format(time.DateTime),
			e.URL,
			strconv.FormatFloat(e.Rank, 'f', 2, 64),
		}
	}
	return renderTable([]string{"Timestamp", "URL", "Rank"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight})
}
