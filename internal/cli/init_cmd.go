package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rhalstead/wgdash/internal/config"
	"github.com/rhalstead/wgdash/internal/errors"
	"github.com/rhalstead/wgdash/internal/ui"
)

// initCmd writes a starter config file.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file",
	Long: `Write a config file with the panel URL and default intervals.

The file goes to ~/.config/wgdash/config.yaml unless --config points
somewhere else.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFlag
		if path == "" {
			var err error
			path, err = config.DefaultPath()
			if err != nil {
				return err
			}
		}

		interactive := term.IsTerminal(int(os.Stdin.Fd()))

		if _, err := os.Stat(path); err == nil {
			if !interactive {
				return errors.New(errors.ErrConfig,
					fmt.Sprintf("config already exists at %s", path),
					"Remove it first or pass --config to write elsewhere")
			}
			overwrite := false
			form := huh.NewForm(huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Overwrite %s?", path)).
					Value(&overwrite),
			))
			if err := form.Run(); err != nil || !overwrite {
				fmt.Println("Aborted.")
				return nil
			}
		}

		server := serverFlag
		if server == "" && interactive {
			form := huh.NewForm(huh.NewGroup(
				huh.NewInput().
					Title("Panel URL").
					Placeholder("https://vpn.example.com").
					Value(&server),
			))
			if err := form.Run(); err != nil {
				fmt.Println("Aborted.")
				return nil
			}
		}
		server = strings.TrimSpace(server)
		if server == "" {
			return errors.New(errors.ErrValidate, "no panel URL given",
				"Pass --server https://vpn.example.com")
		}

		cfg := config.Default()
		cfg.ServerURL = server
		if err := config.Write(cfg, path); err != nil {
			return err
		}

		if machineMode {
			return WriteJSONSuccess(os.Stdout, map[string]string{"path": path})
		}
		fmt.Printf("%s Wrote %s\n", ui.SymbolSuccess, path)
		fmt.Println("Next: wgdash login")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
