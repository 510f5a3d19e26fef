package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"walletlink/pkg/wallet"
	"walletlink/pkg/walletsdk"
)

// sign <account-id>: submit a transaction for user review and signature.
// The transaction is JSON with the wire shape {family, amount, recipient,
// payload}; amount is a decimal string.
func signCmd() *cobra.Command {
	var file, useApp string
	cmd := &cobra.Command{
		Use:   "sign <account-id>",
		Short: "Ask the host to sign a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(file)
			if err != nil {
				return err
			}
			var raw wallet.RawTransaction
			if err := json.Unmarshal(data, &raw); err != nil {
				return fmt.Errorf("parse transaction: %w", err)
			}
			tx, err := wallet.DeserializeTransaction(raw)
			if err != nil {
				return err
			}

			var opts *walletsdk.SignOptions
			if useApp != "" {
				opts = &walletsdk.SignOptions{UseApp: useApp}
			}

			return withSession(cmd.Context(), func(ctx context.Context) error {
				signed, err := client.SignTransaction(ctx, args[0], tx, opts)
				if err != nil {
					return err
				}
				return printJSON(wallet.SerializeSignedTransaction(*signed))
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "transaction JSON file (- for stdin)")
	cmd.Flags().StringVar(&useApp, "use-app", "", "device application to sign with")
	return cmd
}
