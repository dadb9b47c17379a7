package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rhalstead/wgdash/internal/api"
	"github.com/rhalstead/wgdash/internal/errors"
	"github.com/rhalstead/wgdash/internal/registry"
	"github.com/rhalstead/wgdash/internal/ui"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage VPN clients",
	Long: `List, create, and modify the panel's VPN clients.

Clients can be addressed by id or by name wherever a <client> argument
appears. Names only work when they are unique.`,
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		clients, err := registry.New(a.gateway, a.log).List(ctx)
		if err != nil {
			return err
		}

		if machineMode {
			return WriteJSONSuccess(os.Stdout, clients)
		}

		if len(clients) == 0 {
			fmt.Println("No clients configured.")
			return nil
		}

		headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorSecondary)
		fmt.Println(headerStyle.Render(fmt.Sprintf("%-20s %-16s %-8s %-38s", "NAME", "ADDRESS", "STATUS", "ID")))
		for _, c := range clients {
			status := ui.SymbolFail + " off"
			if c.IsEnabled() {
				status = ui.SymbolSuccess + " on"
			}
			fmt.Printf("%-20s %-16s %-8s %-38s\n", truncate(c.Name, 20), c.IPv4, status, c.ID)
		}
		return nil
	},
}

var clientShowCmd = &cobra.Command{
	Use:   "show <client>",
	Short: "Show one client's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		c, err := resolveClient(ctx, a, args[0])
		if err != nil {
			return err
		}

		if machineMode {
			return WriteJSONSuccess(os.Stdout, c)
		}

		printField("Name", c.Name)
		printField("ID", c.ID)
		printField("Public key", c.PublicKey)
		printField("IPv4", c.IPv4)
		if c.IPv6 != "" {
			printField("IPv6", c.IPv6)
		}
		printField("Enabled", fmt.Sprintf("%v", c.IsEnabled()))
		printField("Created", c.CreatedAt)
		if c.ExpiresAt != "" {
			printField("Expires", c.ExpiresAt)
		}
		return nil
	},
}

var clientAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a new client",
	Long: `Create a new VPN client. The server picks the key pair and the
IP addresses; only the name is supplied from here.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		c, err := registry.New(a.gateway, a.log).Create(ctx, args[0])
		if err != nil {
			return err
		}

		if machineMode {
			return WriteJSONSuccess(os.Stdout, c)
		}

		fmt.Printf("%s Created client %q (%s)\n", ui.SymbolSuccess, c.Name, c.IPv4)
		if c.OneTimeLink != "" {
			fmt.Printf("  one-time link: %s\n", c.OneTimeLink)
		}
		fmt.Printf("  config: wgdash client conf %s\n", c.ID)
		return nil
	},
}

var (
	setName    string
	setExpires string
)

var clientSetCmd = &cobra.Command{
	Use:   "set <client>",
	Short: "Update a client's name or expiry",
	Long: `Update fields on an existing client. Only the flags you pass are
sent; everything else stays as it is.

  wgdash client set laptop --name work-laptop
  wgdash client set phone --expires 2026-12-31T00:00:00Z
  wgdash client set phone --expires never`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		c, err := resolveClient(ctx, a, args[0])
		if err != nil {
			return err
		}

		var patch api.UpdateClientRequest
		if cmd.Flags().Changed("name") {
			name := strings.TrimSpace(setName)
			if name == "" {
				return errors.New(errors.ErrValidate, "client name cannot be empty", "")
			}
			patch.Name = &name
		}
		if cmd.Flags().Changed("expires") {
			expires := setExpires
			if strings.EqualFold(expires, "never") {
				expires = ""
			} else if _, err := time.Parse(time.RFC3339, expires); err != nil {
				return errors.New(errors.ErrValidate,
					fmt.Sprintf("invalid expiry %q", setExpires),
					"Use RFC 3339, e.g. 2026-12-31T00:00:00Z, or 'never'")
			}
			patch.ExpiresAt = &expires
		}
		if patch.Name == nil && patch.ExpiresAt == nil {
			return errors.New(errors.ErrValidate, "nothing to update", "Pass --name or --expires")
		}

		if err := registry.New(a.gateway, a.log).Update(ctx, c.ID, patch); err != nil {
			return err
		}

		if machineMode {
			return WriteJSONSuccess(os.Stdout, map[string]string{"id": c.ID})
		}
		fmt.Printf("%s Updated client %q\n", ui.SymbolSuccess, c.Name)
		return nil
	},
}

var removeYes bool

var clientRemoveCmd = &cobra.Command{
	Use:     "remove <client>",
	Aliases: []string{"rm", "delete"},
	Short:   "Delete a client",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		c, err := resolveClient(ctx, a, args[0])
		if err != nil {
			return err
		}

		if !removeYes {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New(errors.ErrValidate,
					fmt.Sprintf("refusing to delete %q without confirmation", c.Name),
					"Pass --yes to skip the prompt")
			}
			confirmed := false
			form := huh.NewForm(huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Delete client %q (%s)?", c.Name, c.IPv4)).
					Description("The peer loses access immediately and the key pair is gone for good.").
					Value(&confirmed),
			))
			if err := form.Run(); err != nil || !confirmed {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := registry.New(a.gateway, a.log).Remove(ctx, c.ID); err != nil {
			return err
		}

		if machineMode {
			return WriteJSONSuccess(os.Stdout, map[string]string{"id": c.ID})
		}
		fmt.Printf("%s Deleted client %q\n", ui.SymbolSuccess, c.Name)
		return nil
	},
}

var clientEnableCmd = &cobra.Command{
	Use:   "enable <client>",
	Short: "Enable a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleClient(args[0], true)
	},
}

var clientDisableCmd = &cobra.Command{
	Use:   "disable <client>",
	Short: "Disable a client without deleting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleClient(args[0], false)
	},
}

func toggleClient(ref string, enable bool) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	c, err := resolveClient(ctx, a, ref)
	if err != nil {
		return err
	}

	reg := registry.New(a.gateway, a.log)
	verb := "Disabled"
	if enable {
		err = reg.Enable(ctx, c.ID)
		verb = "Enabled"
	} else {
		err = reg.Disable(ctx, c.ID)
	}
	if err != nil {
		return err
	}

	if machineMode {
		return WriteJSONSuccess(os.Stdout, map[string]string{"id": c.ID})
	}
	fmt.Printf("%s %s client %q\n", ui.SymbolSuccess, verb, c.Name)
	return nil
}

var clientQRCmd = &cobra.Command{
	Use:   "qr <client>",
	Short: "Print the QR code URL for a client's config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		c, err := resolveClient(ctx, a, args[0])
		if err != nil {
			return err
		}

		url := a.gateway.QRCodeURL(c.ID)
		if machineMode {
			return WriteJSONSuccess(os.Stdout, map[string]string{"id": c.ID, "url": url})
		}
		fmt.Println(url)
		return nil
	},
}

var confOutput string

var clientConfCmd = &cobra.Command{
	Use:   "conf <client>",
	Short: "Download a client's WireGuard config file",
	Long: `Fetch the rendered WireGuard configuration for a client.

Writes to stdout by default; use -o to save to a file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		c, err := resolveClient(ctx, a, args[0])
		if err != nil {
			return err
		}

		data, err := a.gateway.DownloadConfig(ctx, c.ID)
		if err != nil {
			return err
		}

		if confOutput == "" || confOutput == "-" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(confOutput, data, 0o600); err != nil {
			return errors.Wrap(err, "writing config file")
		}
		if !machineMode {
			fmt.Printf("%s Wrote %s\n", ui.SymbolSuccess, confOutput)
		}
		return nil
	},
}

// resolveClient finds a client by id or by unique name.
func resolveClient(ctx context.Context, a *app, ref string) (api.Client, error) {
	clients, err := registry.New(a.gateway, a.log).List(ctx)
	if err != nil {
		return api.Client{}, err
	}

	for _, c := range clients {
		if c.ID == ref {
			return c, nil
		}
	}

	var matches []api.Client
	for _, c := range clients {
		if c.Name == ref {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return api.Client{}, errors.New(errors.ErrNotFound,
			fmt.Sprintf("no client %q", ref),
			"Run 'wgdash client list' to see what exists")
	default:
		return api.Client{}, errors.New(errors.ErrValidate,
			fmt.Sprintf("%d clients named %q", len(matches), ref),
			"Use the client id instead")
	}
}

func printField(label, value string) {
	style := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	fmt.Printf("%s %s\n", style.Render(fmt.Sprintf("%-12s", label+":")), value)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}

func init() {
	clientSetCmd.Flags().StringVar(&setName, "name", "", "new client name")
	clientSetCmd.Flags().StringVar(&setExpires, "expires", "", "expiry time (RFC 3339) or 'never'")
	clientRemoveCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "skip the confirmation prompt")
	clientConfCmd.Flags().StringVarP(&confOutput, "output", "o", "", "write the config to a file ('-' for stdout)")

	clientCmd.AddCommand(clientListCmd)
	clientCmd.AddCommand(clientShowCmd)
	clientCmd.AddCommand(clientAddCmd)
	clientCmd.AddCommand(clientSetCmd)
	clientCmd.AddCommand(clientRemoveCmd)
	clientCmd.AddCommand(clientEnableCmd)
	clientCmd.AddCommand(clientDisableCmd)
	clientCmd.AddCommand(clientQRCmd)
	clientCmd.AddCommand(clientConfCmd)

	rootCmd.AddCommand(clientCmd)
}
