package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rhalstead/wgdash/internal/api"
	"github.com/rhalstead/wgdash/internal/errors"
	"github.com/rhalstead/wgdash/internal/ui"
)

var ifaceCmd = &cobra.Command{
	Use:   "interface",
	Short: "Inspect and tune the server's WireGuard interface",
}

var ifaceShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the interface configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		iface, err := a.gateway.GetInterface(ctx)
		if err != nil {
			return err
		}

		if machineMode {
			return WriteJSONSuccess(os.Stdout, iface)
		}

		printField("Name", iface.Name)
		printField("Public key", iface.PublicKey)
		printField("Listen port", fmt.Sprintf("%d", iface.ListenPort))
		printField("IPv4 CIDR", iface.IPv4CIDR)
		if iface.IPv6CIDR != "" {
			printField("IPv6 CIDR", iface.IPv6CIDR)
		}
		return nil
	},
}

var (
	ifaceListenPort int
	ifaceIPv4CIDR   string
)

var ifaceSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the interface configuration",
	Long: `Change the server's listen port or IPv4 range. The panel validates
the values and re-addresses existing peers when the range changes.

  wgdash interface set --listen-port 51821
  wgdash interface set --ipv4-cidr 10.9.0.0/24`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		var patch api.InterfacePatch
		if cmd.Flags().Changed("listen-port") {
			port := ifaceListenPort
			patch.ListenPort = &port
		}
		if cmd.Flags().Changed("ipv4-cidr") {
			cidr := ifaceIPv4CIDR
			patch.IPv4CIDR = &cidr
		}
		if patch.ListenPort == nil && patch.IPv4CIDR == nil {
			return errors.New(errors.ErrValidate, "nothing to update", "Pass --listen-port or --ipv4-cidr")
		}

		if err := a.gateway.UpdateInterface(ctx, patch); err != nil {
			return err
		}

		if machineMode {
			return WriteJSONSuccess(os.Stdout, nil)
		}
		fmt.Printf("%s Interface updated\n", ui.SymbolSuccess)
		return nil
	},
}

func init() {
	ifaceSetCmd.Flags().IntVar(&ifaceListenPort, "listen-port", 0, "UDP port WireGuard listens on")
	ifaceSetCmd.Flags().StringVar(&ifaceIPv4CIDR, "ipv4-cidr", "", "IPv4 range for peer addresses")

	ifaceCmd.AddCommand(ifaceShowCmd)
	ifaceCmd.AddCommand(ifaceSetCmd)
	rootCmd.AddCommand(ifaceCmd)
}
