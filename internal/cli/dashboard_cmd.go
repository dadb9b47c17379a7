package cli

import (
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rhalstead/wgdash/internal/dashboard"
	"github.com/rhalstead/wgdash/internal/errors"
	"github.com/rhalstead/wgdash/internal/registry"
)

var dashboardInterval time.Duration

// dashboardCmd runs the interactive peer dashboard.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Watch and manage clients in a live dashboard",
	Long: `Open a full-screen dashboard showing every client with its live
traffic counters and online state.

Keys:
  a           add a client
  e / d       enable / disable the selected client
  x           delete the selected client (asks for confirmation)
  r           force a refresh
  q           quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New(errors.ErrValidate, "dashboard needs a terminal",
				"Use 'wgdash client list --json' for machine output")
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		ctx, cancel := commandContext()
		defer cancel()

		a.session.Check(ctx)
		if !a.session.Authenticated() {
			return errors.New(errors.ErrAuth, "not logged in",
				"Log in with 'wgdash login' first")
		}

		interval := dashboardInterval
		if interval <= 0 {
			interval = a.cfg.PollInterval
		}

		reg := registry.New(a.gateway, a.log)
		model := dashboard.NewModel(reg, a.gateway, a.session.Username(), interval)

		p := tea.NewProgram(model, tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	dashboardCmd.Flags().DurationVar(&dashboardInterval, "interval", 0, "stats refresh interval (default from config)")
	rootCmd.AddCommand(dashboardCmd)
}
