package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"walletlink/pkg/wallet"
)

// estimate <account-id>: price a transaction without signing it. Takes the
// same transaction JSON as sign.
func estimateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "estimate <account-id>",
		Short: "Estimate fees for a transaction",
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

			return withSession(cmd.Context(), func(ctx context.Context) error {
				fees, err := client.EstimateTransactionFees(ctx, args[0], tx)
				if err != nil {
					return err
				}
				return printJSON(fees)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "transaction JSON file (- for stdin)")
	return cmd
}
