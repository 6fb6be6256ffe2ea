package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/LeoCore/internal/api/mcp"
)

func newMCPCommand(ctx *commandContext) *cobra.Command {
	var (
		addr  string
		stdio bool
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server exposing leo_audit and leo_recent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}

			var scores mcp.ScoreReader
			if a.Store != nil {
				scores = a.Store
			}
			srv := mcp.NewServer(a.Pipeline, scores, a.Logger)

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if stdio {
				return srv.ServeStdio(runCtx)
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.MCP.Addr
			}
			cmd.PrintErrf("Serving MCP at http://%s\n", addr)
			return srv.ListenAndServe(runCtx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8800", "Listen address for streamable HTTP (overrides LEO_MCP_ADDR)")
	cmd.Flags().BoolVar(&stdio, "stdio", false, "Serve over stdin/stdout instead of HTTP")

	return cmd
}
