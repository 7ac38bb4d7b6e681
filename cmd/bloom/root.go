package main

import (
	"fmt"
	"os"

	"github.com/aretw0/bloom/internal/cli"
	"github.com/aretw0/bloom/internal/config"
	"github.com/aretw0/bloom/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bloom",
	Short: "bloom drives pages as sequences of views",
	Long: `bloom hosts pages whose views are produced step by step.
Run them in the terminal with 'bloom run' or expose them over HTTP with 'bloom serve'.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the bloom configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level (debug, info, warn, error)")
}

// loadApp reads the configuration named by the flags and builds the App.
func loadApp(cmd *cobra.Command) (*cli.App, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		if _, err := logging.ParseLevel(lvl); err != nil {
			return nil, err
		}
		cfg.Log.Level = lvl
	}
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		cfg.Server.Addr = f.Value.String()
	}

	return cli.NewApp(cfg, os.Stderr)
}
