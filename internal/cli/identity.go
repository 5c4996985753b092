package cli

import (
	"fmt"

	"github.com/roboricindustries/raycon-notify/pkg/notify"
	"github.com/spf13/cobra"
)

func identityCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "identity <mode+pointer>",
		Short: "Decode an on-chain notification identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, pointer, err := notify.ParseIdentity(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mode:    %s (%s)\n", code.Name(), code)
			fmt.Fprintf(out, "pointer: %s\n", pointer)
			return nil
		},
	}
}
