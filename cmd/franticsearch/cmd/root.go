// Package cmd is the demo CLI for the query-execution core: a small
// sample-query runner, not the compliance-suite harness (out of scope).
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "franticsearch",
		Short:        "franticsearch",
		SilenceUsage: true,
		Long:         `Demo CLI over the Frantic Search query-execution core: loads a catalog payload and runs sample queries against it, printing per-subexpression match counts.`,
	}

	catalogPath   string
	printingsPath string
	schemaVersion string
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&catalogPath, "catalog", "c", "", "path to the face-level catalog JSON payload")
	rootCmd.PersistentFlags().StringVarP(&printingsPath, "printings", "p", "", "path to the optional printing-level JSON payload")
	rootCmd.PersistentFlags().StringVarP(&schemaVersion, "schema-version", "s", "v1", "expected catalog schema version")
	return rootCmd.Execute()
}
