package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/server"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	var (
		host string
		port string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			srv := server.NewServer(cfg, a)

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Run() }()
			cmd.Printf("Serving LEO API at http://%s\n", srv.Addr())

			select {
			case err := <-errCh:
				return err
			case <-runCtx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(runCtx), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return <-errCh
		},
	}

	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "Listen host (overrides HOST)")
	cmd.Flags().StringVar(&port, "port", "8000", "Listen port (overrides PORT)")

	return cmd
}
