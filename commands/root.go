// Package commands defines the congno command line.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the congno command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "congno",
		Short: "Shared expense ledger with bank transfer settlement",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCommand(), newMigrateCommand())
	return rootCmd
}
