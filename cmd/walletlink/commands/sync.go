package commands

import (
	"context"

	"github.com/spf13/cobra"

	"walletlink/pkg/wallet"
)

// sync <account-id>: refresh one account against its network and print the
// updated record.
func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync <account-id>",
		Short: "Resynchronize an account with its network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context) error {
				acc, err := client.SynchronizeAccount(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(wallet.SerializeAccount(*acc))
			})
		},
	}
}
