package main

import (
	"context"
	"os"

	"github.com/aretw0/bloom/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [route]",
	Short: "Run a page in the terminal",
	Long: `Starts the console runner on the given route (or the configured entry route).

Each input line is either an event for the current view:
  <target>[:<event>] [key=value ...] [value]
or a command: :goto <route>, :render, :advance, :refresh, :quit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		noBanner, _ := cmd.Flags().GetBool("no-banner")
		markdown, _ := cmd.Flags().GetBool("markdown")

		opts := cli.ConsoleOptions{
			Input:    os.Stdin,
			Output:   os.Stdout,
			Banner:   !noBanner,
			Markdown: markdown,
		}
		if len(args) > 0 {
			opts.Route = args[0]
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.RunConsole(sigCtx, app, opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("no-banner", false, "Do not print the banner")
	runCmd.Flags().Bool("markdown", true, "Render markdown elements with glamour")
}
