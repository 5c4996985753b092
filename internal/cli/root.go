// Package cli implements the notifyctl commands.
package cli

import "github.com/spf13/cobra"

// Root returns the notifyctl command tree.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:           "notifyctl",
		Short:         "Compose, dispatch and inspect channel notifications",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		sendCommand(),
		keygenCommand(),
		openCommand(),
		identityCommand(),
	)
	return root
}
