package commands

import (
	"context"

	"github.com/spf13/cobra"
)

func deviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Inspect the hardware device behind the host",
	}
	cmd.AddCommand(deviceInfoCmd(), deviceAppsCmd())
	return cmd
}

func deviceInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the connected device's model and firmware version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context) error {
				info, err := client.GetDeviceInfo(ctx)
				if err != nil {
					return err
				}
				return printJSON(info)
			})
		},
	}
}

func deviceAppsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apps",
		Short: "List the applications installed on the device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context) error {
				apps, err := client.ListApps(ctx)
				if err != nil {
					return err
				}
				return printJSON(apps)
			})
		},
	}
}
