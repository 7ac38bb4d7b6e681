package main

import (
	"context"
	"fmt"
	"net"

	"github.com/aretw0/bloom/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP host",
	Long:  `Serves bloom sessions over a JSON API, with Server-Sent Events per session and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		if err := app.Ping(sigCtx); err != nil {
			return err
		}

		ln, err := net.Listen("tcp", app.Config.Server.Addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", app.Config.Server.Addr, err)
		}
		return cli.Serve(sigCtx, app, ln)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (overrides server.addr)")
}
