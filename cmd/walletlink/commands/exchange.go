package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"walletlink/pkg/wallet"
	"walletlink/pkg/walletsdk"
)

func exchangeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exchange",
		Short: "Run a partner exchange through the host",
	}
	cmd.AddCommand(exchangeInitCmd(), exchangeCompleteCmd())
	return cmd
}

// exchange init <type>: request a device-bound exchange nonce. Type is one
// of SWAP, SELL or FUND.
func exchangeInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <type>",
		Short: "Request a device-bound exchange nonce",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exchangeType, err := wallet.ParseExchangeType(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd.Context(), func(ctx context.Context) error {
				nonce, err := client.InitExchange(ctx, exchangeType)
				if err != nil {
					return err
				}
				fmt.Println(nonce)
				return nil
			})
		},
	}
}

// exchange complete: submit the partner payload plus the funding
// transaction. Input is one JSON document with the CompleteExchangeParams
// fields and the funding transaction under "transaction" in wire shape.
func exchangeCompleteCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Finalize a partner exchange",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(file)
			if err != nil {
				return err
			}
			var in struct {
				walletsdk.CompleteExchangeParams
				Transaction wallet.RawTransaction `json:"transaction"`
			}
			if err := json.Unmarshal(data, &in); err != nil {
				return fmt.Errorf("parse exchange params: %w", err)
			}
			tx, err := wallet.DeserializeTransaction(in.Transaction)
			if err != nil {
				return err
			}
			params := in.CompleteExchangeParams
			params.Transaction = tx

			return withSession(cmd.Context(), func(ctx context.Context) error {
				hash, err := client.CompleteExchange(ctx, params)
				if err != nil {
					return err
				}
				fmt.Println(hash)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "exchange params JSON file (- for stdin)")
	return cmd
}
