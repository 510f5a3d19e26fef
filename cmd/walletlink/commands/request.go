package commands

import (
	"context"

	"github.com/spf13/cobra"

	"walletlink/pkg/wallet"
	"walletlink/pkg/walletsdk"
)

// request: open the host's account picker and print the chosen account.
// Blocks until the user picks or cancels on the host side.
func requestCmd() *cobra.Command {
	var currencies []string
	var allowAdd bool
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Ask the user to pick one account on the host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context) error {
				acc, err := client.RequestAccount(ctx, walletsdk.RequestAccountParams{
					Currencies:      currencies,
					AllowAddAccount: allowAdd,
				})
				if err != nil {
					return err
				}
				return printJSON(wallet.SerializeAccount(*acc))
			})
		},
	}
	cmd.Flags().StringSliceVar(&currencies, "currency", nil, "restrict the picker to these currency ids (repeatable)")
	cmd.Flags().BoolVar(&allowAdd, "allow-add", false, "let the user create a fresh account from the picker")
	return cmd
}
