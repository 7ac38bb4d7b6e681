package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		entry := app.Config.Routes.Entry
		for _, route := range app.Routes.Routes() {
			marker := " "
			if route == entry {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, route)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
}
