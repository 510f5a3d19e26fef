package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"walletlink/pkg/wallet"
)

// broadcast <account-id>: push a previously signed transaction to the
// network and print the hash. Input is the JSON printed by `sign`.
func broadcastCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "broadcast <account-id>",
		Short: "Broadcast a signed transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(file)
			if err != nil {
				return err
			}
			var raw wallet.RawSignedTransaction
			if err := json.Unmarshal(data, &raw); err != nil {
				return fmt.Errorf("parse signed transaction: %w", err)
			}
			signed, err := wallet.DeserializeSignedTransaction(raw)
			if err != nil {
				return err
			}

			return withSession(cmd.Context(), func(ctx context.Context) error {
				hash, err := client.BroadcastSignedTransaction(ctx, args[0], signed)
				if err != nil {
					return err
				}
				fmt.Println(hash)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "signed transaction JSON file (- for stdin)")
	return cmd
}
