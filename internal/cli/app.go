package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rhalstead/wgdash/internal/api"
	"github.com/rhalstead/wgdash/internal/config"
	"github.com/rhalstead/wgdash/internal/errors"
	"github.com/rhalstead/wgdash/internal/logger"
	"github.com/rhalstead/wgdash/internal/secrets"
	"github.com/rhalstead/wgdash/internal/session"
)

// app bundles the pieces every command needs: resolved config, an API
// gateway with the stored session cookie restored, and a session manager.
type app struct {
	cfg     *config.Config
	gateway *api.Gateway
	session *session.Manager
	log     logger.Logger
}

// newApp resolves configuration and builds a gateway for the panel.
// The session cookie saved by a previous login is restored if present,
// so commands pick up where the last invocation left off.
func newApp() (*app, error) {
	cfg, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return nil, err
	}
	if serverFlag != "" {
		cfg.ServerURL = serverFlag
	}
	if cfg.ServerURL == "" {
		return nil, errors.New(errors.ErrConfig, "no panel URL configured",
			"Set server_url in the config file or pass --server https://vpn.example.com")
	}

	log := logger.Default()

	gw, err := api.New(cfg.ServerURL, cfg.RequestTimeout, log)
	if err != nil {
		return nil, err
	}
	if cfg.InsecureSkipVerify {
		gw.AllowInsecureTLS()
	}

	cookies, err := secrets.LoadSession(cfg.ServerURL)
	if err == nil {
		gw.RestoreCookies(cookies)
	} else if err != secrets.ErrNotFound {
		log.Debug("stored session unavailable: %v", err)
	}

	return &app{
		cfg:     cfg,
		gateway: gw,
		session: session.NewManager(gw, log),
		log:     log,
	}, nil
}

// persistSession saves the gateway's current cookies to the OS keyring.
func (a *app) persistSession() error {
	return secrets.SaveSession(a.cfg.ServerURL, a.gateway.SessionCookies())
}

// forgetSession removes the stored cookies for this panel.
func (a *app) forgetSession() error {
	return secrets.ClearSession(a.cfg.ServerURL)
}

// commandContext returns a context cancelled by Ctrl-C. Request deadlines
// come from the gateway's HTTP client, not from here.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
