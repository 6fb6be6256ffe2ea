package main

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/LeoCore/internal/domain/audit"
	"github.com/GriffinCanCode/LeoCore/internal/pipeline"
)

func newAuditCommand(ctx *commandContext) *cobra.Command {
	var (
		output    string
		noPersist bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "audit URL",
		Short: "Run a LEO audit of a web page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}

			url := args[0]
			if !asJSON {
				fmt.Fprintf(cmd.OutOrStdout(), "Auditing %s ...\n", url)
			}

			rec, err := a.Pipeline.RunAudit(cmd.Context(), url, pipeline.WithPersist(!noPersist))
			if err != nil {
				return err
			}

			if output != "" {
				if _, err := audit.SaveReport(rec, output); err != nil {
					return err
				}
			}

			if asJSON {
				return writeJSON(cmd, audit.NewReport(rec, time.Now()))
			}
			printAudit(cmd, rec)
			if output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "\nReport written to %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the JSON report to this file")
	cmd.Flags().BoolVar(&noPersist, "no-persist", false, "Do not record the rank in the score store")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}

func printAudit(cmd *cobra.Command, rec audit.Record) {
	out := cmd.OutOrStdout()

	rank, _ := rec.Rank()
	fmt.Fprintf(out, "LEO Rank: %.2f\n", rank)

	fmt.Fprintln(out, "Metrics:")
	metrics := rec.Metrics()
	for _, name := range slices.Sorted(maps.Keys(metrics)) {
		fmt.Fprintf(out, "  %s: %.4f\n", name, metrics[name])
	}

	fmt.Fprintln(out, "\nSuggestions:")
	for _, s := range rec.Suggestions() {
		fmt.Fprintf(out, "  - %s\n", s)
	}
}
