package commands

import (
	"context"

	"github.com/spf13/cobra"

	"walletlink/pkg/wallet"
)

// accounts: list every account the host exposes, in the host's order.
func accountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the accounts visible to this client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context) error {
				accounts, err := client.ListAccounts(ctx)
				if err != nil {
					return err
				}
				raws := make([]wallet.RawAccount, 0, len(accounts))
				for _, acc := range accounts {
					raws = append(raws, wallet.SerializeAccount(acc))
				}
				return printJSON(raws)
			})
		},
	}
}
