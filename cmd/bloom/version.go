package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/bloom"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of bloom",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bloom version %s\n", strings.TrimSpace(bloom.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
