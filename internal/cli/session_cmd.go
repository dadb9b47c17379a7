package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rhalstead/wgdash/internal/errors"
	"github.com/rhalstead/wgdash/internal/ui"
)

var (
	loginUsername string
	loginTOTP     string
)

// loginCmd authenticates against the panel and stores the session cookie.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the panel",
	Long: `Authenticate against the WireGuard panel and save the session cookie.

The password is always prompted, never taken from a flag. When stdin is
not a terminal the credentials are read line by line (username, password,
optional TOTP code), so the command works in scripts:

  printf 'admin\nS3cret\n' | wgdash login`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		username := loginUsername
		var password string
		totp := loginTOTP

		if term.IsTerminal(int(os.Stdin.Fd())) {
			if err := promptCredentials(&username, &password, &totp); err != nil {
				return err
			}
		} else {
			if err := readCredentials(os.Stdin, &username, &password, &totp); err != nil {
				return err
			}
		}

		ctx, cancel := commandContext()
		defer cancel()

		if err := a.session.Login(ctx, username, password, totp); err != nil {
			return err
		}
		if err := a.persistSession(); err != nil {
			a.log.Warn("session not saved to keyring: %v", err)
		}

		if machineMode {
			return WriteJSONSuccess(os.Stdout, map[string]string{"username": a.session.Username()})
		}
		fmt.Printf("%s Logged in to %s as %s\n", ui.SymbolSuccess, a.gateway.BaseURL(), a.session.Username())
		return nil
	},
}

// promptCredentials fills in missing credentials via an interactive form.
func promptCredentials(username, password, totp *string) error {
	fields := []huh.Field{}
	if *username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(username))
	}
	fields = append(fields, huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(password))
	if *totp == "" {
		fields = append(fields, huh.NewInput().
			Title("Two-factor code (leave empty if disabled)").
			Value(totp))
	}

	form := huh.NewForm(huh.NewGroup(fields...))
	if err := form.Run(); err != nil {
		return errors.New(errors.ErrAuth, "login cancelled", "")
	}
	return nil
}

// readCredentials reads username, password, and an optional TOTP line
// from a non-interactive stdin.
func readCredentials(r *os.File, username, password, totp *string) error {
	scanner := bufio.NewScanner(r)
	readLine := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	if *username == "" {
		v, ok := readLine()
		if !ok {
			return errors.New(errors.ErrValidate, "no username on stdin",
				"Pipe username and password, one per line")
		}
		*username = v
	}
	v, ok := readLine()
	if !ok {
		return errors.New(errors.ErrValidate, "no password on stdin",
			"Pipe username and password, one per line")
	}
	*password = v
	if *totp == "" {
		if v, ok := readLine(); ok {
			*totp = v
		}
	}
	return nil
}

// logoutCmd ends the panel session and clears the stored cookie.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		ctx, cancel := commandContext()
		defer cancel()

		a.session.Logout(ctx)
		if err := a.forgetSession(); err != nil {
			a.log.Debug("keyring clear: %v", err)
		}

		if machineMode {
			return WriteJSONSuccess(os.Stdout, nil)
		}
		fmt.Printf("%s Logged out of %s\n", ui.SymbolSuccess, a.gateway.BaseURL())
		return nil
	},
}

// whoamiCmd reports the current session state.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		ctx, cancel := commandContext()
		defer cancel()

		state := a.session.Check(ctx)
		if machineMode {
			return WriteJSONSuccess(os.Stdout, map[string]interface{}{
				"server":        a.gateway.BaseURL(),
				"authenticated": a.session.Authenticated(),
				"username":      a.session.Username(),
			})
		}

		if !a.session.Authenticated() {
			fmt.Printf("%s Not logged in to %s (%s)\n", ui.SymbolWarn, a.gateway.BaseURL(), state)
			return nil
		}
		fmt.Printf("%s Logged in to %s as %s\n", ui.SymbolSuccess, a.gateway.BaseURL(), a.session.Username())
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "panel username")
	loginCmd.Flags().StringVar(&loginTOTP, "totp", "", "two-factor code")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
