// Package cli wires the wgdash commands: session management, client CRUD,
// interface and settings updates, and the interactive dashboard.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Persistent flags shared by all commands.
var (
	configFlag string
	serverFlag string
)

// rootCmd is the base command for wgdash.
var rootCmd = &cobra.Command{
	Use:   "wgdash",
	Short: "Manage a WireGuard panel from the terminal",
	Long: `wgdash is a terminal client for wg-easy style WireGuard panels.

It talks to the panel's REST API with the same session cookie a browser
would use: log in once, then list, add, enable, disable, and remove VPN
clients, watch live traffic in the dashboard, and adjust the server's
interface and defaults.

Examples:
  wgdash login
  wgdash client list
  wgdash dashboard`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if machineMode {
			_ = WriteJSONFromError(os.Stdout, err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// completionCmd generates shell completion scripts.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for wgdash.

Examples:
  # Bash
  wgdash completion bash > /etc/bash_completion.d/wgdash

  # Zsh
  wgdash completion zsh > "${fpath[1]}/_wgdash"

  # Fish
  wgdash completion fish > ~/.config/fish/completions/wgdash.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		default:
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "panel URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&machineMode, "json", false, "output in JSON format")

	rootCmd.AddCommand(completionCmd)
}
