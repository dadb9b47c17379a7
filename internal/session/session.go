// Package session tracks whether the current operator is authenticated
// against the panel, and as whom. It is the only place that state changes:
// callers go through Check, Login, and Logout.
package session

import (
	"context"
	"strings"

	"github.com/rhalstead/wgdash/internal/api"
	"github.com/rhalstead/wgdash/internal/errors"
	"github.com/rhalstead/wgdash/internal/logger"
)

// maxTOTPLength bounds the optional one-time code field.
const maxTOTPLength = 6

// State is the authentication state of the current session.
type State int

const (
	// StateUnknown is the initial state before the startup check resolves.
	StateUnknown State = iota
	// StateUnauthenticated means no live server session exists.
	StateUnauthenticated
	// StateAuthenticated means the server confirmed a live session.
	StateAuthenticated
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// API is the slice of the gateway the session manager needs.
type API interface {
	CheckSession(ctx context.Context) (api.SessionResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (api.SessionResponse, error)
	Logout(ctx context.Context) error
}

// Manager owns the process-wide authentication state.
type Manager struct {
	api      API
	state    State
	username string
	logger   logger.Logger
}

// NewManager creates a session manager in the unknown state.
func NewManager(gw API, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NewEnvLogger("[session]")
	}
	return &Manager{
		api:    gw,
		state:  StateUnknown,
		logger: log,
	}
}

// State returns the current authentication state.
func (m *Manager) State() State {
	return m.state
}

// Authenticated reports whether the server has confirmed a live session.
func (m *Manager) Authenticated() bool {
	return m.state == StateAuthenticated
}

// Username returns the authenticated operator's name, or "" when not
// authenticated.
func (m *Manager) Username() string {
	return m.username
}

// Check resolves the startup state by asking the server whether the current
// cookie is a live session. A transport failure resolves to unauthenticated
// rather than propagating: startup must never hang or fail on this call.
func (m *Manager) Check(ctx context.Context) State {
	resp, err := m.api.CheckSession(ctx)
	if err != nil {
		m.logger.Warn("session check failed, treating as unauthenticated: %v", err)
		m.state = StateUnauthenticated
		m.username = ""
		return m.state
	}

	if resp.Authenticated {
		m.state = StateAuthenticated
		m.username = resp.Username
	} else {
		m.state = StateUnauthenticated
		m.username = ""
	}
	return m.state
}

// Login attempts to establish an authenticated session. The TOTP code is
// optional and omitted when blank. Any failure - wrong password, wrong code,
// or transport error - collapses into one generic authentication error so
// the caller never learns which credential was rejected. No retries: each
// call is one attempt.
func (m *Manager) Login(ctx context.Context, username, password, totpCode string) error {
	totpCode = strings.TrimSpace(totpCode)
	if len(totpCode) > maxTOTPLength {
		return errors.New(errors.ErrValidate,
			"Two-factor code is too long",
			"Codes are at most 6 characters")
	}

	resp, err := m.api.Login(ctx, api.LoginRequest{
		Username: username,
		Password: password,
		TOTPCode: totpCode,
	})
	if err != nil || !resp.Authenticated {
		if err != nil {
			m.logger.Debug("login request failed: %v", err)
		}
		m.state = StateUnauthenticated
		m.username = ""
		return errors.New(errors.ErrAuth,
			"Authentication failed",
			"Check your username, password, and two-factor code")
	}

	m.state = StateAuthenticated
	m.username = resp.Username
	if m.username == "" {
		m.username = username
	}
	m.logger.Info("logged in as %s", m.username)
	return nil
}

// Logout ends the session. The server call is best-effort: local state
// transitions to unauthenticated no matter what, so the client can never
// get stuck looking logged in.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.api.Logout(ctx); err != nil {
		m.logger.Warn("server logout failed, clearing local session anyway: %v", err)
	}
	m.state = StateUnauthenticated
	m.username = ""
}
