package commands

import (
	"context"

	"github.com/spf13/cobra"

	"walletlink/pkg/walletsdk"
)

func currenciesCmd() *cobra.Command {
	var name, ticker string
	cmd := &cobra.Command{
		Use:   "currencies",
		Short: "List the currencies the host supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter *walletsdk.CurrencyFilter
			if name != "" || ticker != "" {
				filter = &walletsdk.CurrencyFilter{Name: name, Ticker: ticker}
			}
			return withSession(cmd.Context(), func(ctx context.Context) error {
				currencies, err := client.ListCurrencies(ctx, filter)
				if err != nil {
					return err
				}
				return printJSON(currencies)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "filter by currency name")
	cmd.Flags().StringVar(&ticker, "ticker", "", "filter by ticker, e.g. BTC")
	return cmd
}
