// Command bazinga runs the storefront API and its maintenance tasks.
//
//	bazinga serve              # migrate, then serve HTTP
//	bazinga migrate            # run pending migrations
//	bazinga migrate:rollback
//	bazinga migrate:status
//	bazinga seed               # reference data, admin account, demo comics
//	bazinga route:list
//	bazinga token:inspect <token>
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "bazinga",
	Short:         "Bazinga comics storefront",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(tokenInspectCmd)
}
