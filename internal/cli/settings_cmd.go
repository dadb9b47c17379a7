package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rhalstead/wgdash/internal/api"
	"github.com/rhalstead/wgdash/internal/errors"
	"github.com/rhalstead/wgdash/internal/ui"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and tune the defaults for new clients",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the server-wide client defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		settings, err := a.gateway.GetSettings(ctx)
		if err != nil {
			return err
		}

		if machineMode {
			return WriteJSONSuccess(os.Stdout, settings)
		}

		printField("Host", settings.WGHost)
		printField("Port", fmt.Sprintf("%d", settings.WGPort))
		printField("DNS", settings.WGDefaultDNS)
		printField("Allowed IPs", settings.WGAllowedIPs)
		printField("Address", settings.WGDefaultAddress)
		return nil
	},
}

var (
	settingsHost       string
	settingsPort       int
	settingsDNS        string
	settingsAllowedIPs string
	settingsAddress    string
)

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the defaults for new clients",
	Long: `Change the endpoint and defaults baked into generated client configs.
Existing clients keep the values they were created with until their
config is re-downloaded.

  wgdash settings set --host vpn.example.com --port 51820
  wgdash settings set --dns 1.1.1.1 --allowed-ips 0.0.0.0/0`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		var patch api.SettingsPatch
		changed := false
		if cmd.Flags().Changed("host") {
			patch.WGHost = &settingsHost
			changed = true
		}
		if cmd.Flags().Changed("port") {
			patch.WGPort = &settingsPort
			changed = true
		}
		if cmd.Flags().Changed("dns") {
			patch.WGDefaultDNS = &settingsDNS
			changed = true
		}
		if cmd.Flags().Changed("allowed-ips") {
			patch.WGAllowedIPs = &settingsAllowedIPs
			changed = true
		}
		if cmd.Flags().Changed("address") {
			patch.WGDefaultAddress = &settingsAddress
			changed = true
		}
		if !changed {
			return errors.New(errors.ErrValidate, "nothing to update",
				"Pass at least one of --host, --port, --dns, --allowed-ips, --address")
		}

		if err := a.gateway.UpdateSettings(ctx, patch); err != nil {
			return err
		}

		if machineMode {
			return WriteJSONSuccess(os.Stdout, nil)
		}
		fmt.Printf("%s Settings updated\n", ui.SymbolSuccess)
		return nil
	},
}

func init() {
	settingsSetCmd.Flags().StringVar(&settingsHost, "host", "", "public hostname clients connect to")
	settingsSetCmd.Flags().IntVar(&settingsPort, "port", 0, "public UDP port clients connect to")
	settingsSetCmd.Flags().StringVar(&settingsDNS, "dns", "", "DNS server for new clients")
	settingsSetCmd.Flags().StringVar(&settingsAllowedIPs, "allowed-ips", "", "allowed IPs for new clients")
	settingsSetCmd.Flags().StringVar(&settingsAddress, "address", "", "address template for new clients")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
