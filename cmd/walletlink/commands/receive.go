package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// receive <account-id>: have the host verify a fresh address on the device
// and print it.
func receiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "receive <account-id>",
		Short: "Verify and print a fresh receive address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context) error {
				address, err := client.Receive(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Println(address)
				return nil
			})
		},
	}
}
