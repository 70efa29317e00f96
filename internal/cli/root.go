// Package cli defines the demodash command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "demodash",
	Short: "CS2 demo dashboard backend",
	Long:  "Import CS2 .dem files and serve round-level match statistics.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(integrityCmd)
	rootCmd.AddCommand(reportCmd)
}
