package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "parsivelctl",
	Short: "Inspect and generate Parsivel disdrometer files",
	Long: `parsivelctl works with the line oriented files written by a Parsivel
disdrometer. It can check a file the same way the ETL service reads it and
generate synthetic files for local runs.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
