// Package api is the typed REST gateway to the panel server. It maps one
// method to each endpoint and does nothing beyond path/method mapping,
// JSON encoding, and error classification; all caching and state
// reconciliation lives in the packages above it.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rhalstead/wgdash/internal/errors"
	"github.com/rhalstead/wgdash/internal/logger"
)

// DefaultTimeout bounds each request when the caller does not configure one.
const DefaultTimeout = 15 * time.Second

// Gateway issues credentialed requests against the panel's REST surface.
// The session cookie lives in the jar; callers persist and restore it
// through SessionCookies/RestoreCookies.
type Gateway struct {
	baseURL    *url.URL
	httpClient *http.Client
	jar        http.CookieJar
	logger     logger.Logger
}

// New creates a gateway for the panel at baseURL.
func New(baseURL string, timeout time.Duration, log logger.Logger) (*Gateway, error) {
	if log == nil {
		log = logger.NewEnvLogger("[api]")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' is not a valid server URL", baseURL),
			"Use a full URL like https://vpn.example.com")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create cookie jar")
	}

	return &Gateway{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		jar:    jar,
		logger: log,
	}, nil
}

// BaseURL returns the configured server URL.
func (g *Gateway) BaseURL() string {
	return g.baseURL.String()
}

// SessionCookies returns the cookies currently held for the server,
// suitable for persisting between invocations.
func (g *Gateway) SessionCookies() []*http.Cookie {
	return g.jar.Cookies(g.baseURL)
}

// RestoreCookies seeds the jar with previously persisted session cookies.
func (g *Gateway) RestoreCookies(cookies []*http.Cookie) {
	g.jar.SetCookies(g.baseURL, cookies)
}

// AllowInsecureTLS disables certificate verification for this gateway.
// For panels behind self-signed certificates; never the default.
func (g *Gateway) AllowInsecureTLS() {
	g.logger.Warn("TLS certificate verification disabled for %s", g.baseURL.Host)
	g.httpClient.Transport = &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
}

// CheckSession asks the server whether the current cookie is a live session.
func (g *Gateway) CheckSession(ctx context.Context) (SessionResponse, error) {
	var resp SessionResponse
	err := g.do(ctx, http.MethodGet, "/api/session", nil, &resp)
	return resp, err
}

// Login submits credentials and establishes the session cookie on success.
func (g *Gateway) Login(ctx context.Context, req LoginRequest) (SessionResponse, error) {
	var resp SessionResponse
	err := g.do(ctx, http.MethodPost, "/api/session", req, &resp)
	return resp, err
}

// Logout terminates the server-side session.
func (g *Gateway) Logout(ctx context.Context) error {
	return g.do(ctx, http.MethodDelete, "/api/session", nil, nil)
}

// ListClients fetches all peer records.
func (g *Gateway) ListClients(ctx context.Context) ([]Client, error) {
	var clients []Client
	err := g.do(ctx, http.MethodGet, "/api/client", nil, &clients)
	return clients, err
}

// CreateClient asks the server to mint a new peer. The server assigns the
// id, key material, and addresses; the response carries the full record.
func (g *Gateway) CreateClient(ctx context.Context, name string) (Client, error) {
	var created Client
	err := g.do(ctx, http.MethodPost, "/api/client", CreateClientRequest{Name: name}, &created)
	return created, err
}

// GetClient fetches a single peer record by id.
func (g *Gateway) GetClient(ctx context.Context, id string) (Client, error) {
	var c Client
	err := g.do(ctx, http.MethodGet, "/api/client/"+url.PathEscape(id), nil, &c)
	return c, err
}

// UpdateClient applies a partial patch to a peer record.
func (g *Gateway) UpdateClient(ctx context.Context, id string, patch UpdateClientRequest) error {
	return g.do(ctx, http.MethodPut, "/api/client/"+url.PathEscape(id), patch, nil)
}

// RemoveClient deletes a peer record. Deleting an unknown id surfaces the
// server's error as-is.
func (g *Gateway) RemoveClient(ctx context.Context, id string) error {
	return g.do(ctx, http.MethodDelete, "/api/client/"+url.PathEscape(id), nil, nil)
}

// EnableClient flips a peer's enabled flag on.
func (g *Gateway) EnableClient(ctx context.Context, id string) error {
	return g.do(ctx, http.MethodPut, "/api/client/"+url.PathEscape(id)+"/enable", nil, nil)
}

// DisableClient flips a peer's enabled flag off.
func (g *Gateway) DisableClient(ctx context.Context, id string) error {
	return g.do(ctx, http.MethodPut, "/api/client/"+url.PathEscape(id)+"/disable", nil, nil)
}

// GetStats fetches the full per-peer traffic and handshake collection.
func (g *Gateway) GetStats(ctx context.Context) ([]PeerStats, error) {
	var stats []PeerStats
	err := g.do(ctx, http.MethodGet, "/api/stats", nil, &stats)
	return stats, err
}

// GetInterface fetches the server's WireGuard interface record.
func (g *Gateway) GetInterface(ctx context.Context) (Interface, error) {
	var iface Interface
	err := g.do(ctx, http.MethodGet, "/api/interface", nil, &iface)
	return iface, err
}

// UpdateInterface applies a partial patch to the interface record.
func (g *Gateway) UpdateInterface(ctx context.Context, patch InterfacePatch) error {
	return g.do(ctx, http.MethodPut, "/api/interface", patch, nil)
}

// GetSettings fetches the server-wide client defaults.
func (g *Gateway) GetSettings(ctx context.Context) (Settings, error) {
	var s Settings
	err := g.do(ctx, http.MethodGet, "/api/config", nil, &s)
	return s, err
}

// UpdateSettings applies a partial patch to the server-wide defaults.
func (g *Gateway) UpdateSettings(ctx context.Context, patch SettingsPatch) error {
	return g.do(ctx, http.MethodPut, "/api/config", patch, nil)
}

// QRCodeURL returns the address of a peer's QR code image. The resource is
// referenced by URL, never fetched into state.
func (g *Gateway) QRCodeURL(id string) string {
	return g.baseURL.String() + "/api/client/" + url.PathEscape(id) + "/qrcode.svg"
}

// ConfigFileURL returns the address of a peer's tunnel configuration download.
func (g *Gateway) ConfigFileURL(id string) string {
	return g.baseURL.String() + "/api/client/" + url.PathEscape(id) + "/configuration"
}

// DownloadConfig fetches a peer's tunnel configuration text.
func (g *Gateway) DownloadConfig(ctx context.Context, id string) ([]byte, error) {
	target := g.ConfigFileURL(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create request")
	}

	g.logger.Debug("GET %s", target)
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "Configuration download failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, g.statusError(resp.StatusCode, resp.Body)
	}
	return io.ReadAll(resp.Body)
}

// do issues one request and decodes the JSON response into out when out is
// non-nil. Classification: network failures and 5xx are TRANSPORT, 401 is
// AUTH, 404 is NOTFOUND; other 4xx bodies are surfaced verbatim.
func (g *Gateway) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "Failed to encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	target := g.baseURL.String() + path
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.Wrap(err, "Failed to create request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	g.logger.Debug("%s %s", method, target)
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Request to %s failed", g.baseURL.Host),
			"Check the server URL and your network connection")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return g.statusError(resp.StatusCode, resp.Body)
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "Failed to read response body")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		g.logger.Error("malformed response from %s %s: %v", method, path, err)
		return errors.Wrap(err, "Server returned a malformed response")
	}
	return nil
}

// statusError converts a non-2xx response into a structured error.
func (g *Gateway) statusError(status int, body io.Reader) error {
	raw, _ := io.ReadAll(io.LimitReader(body, 4096))
	detail := strings.TrimSpace(string(raw))

	switch {
	case status == http.StatusUnauthorized:
		return errors.New(errors.ErrAuth,
			"Not authenticated",
			"Log in with 'wgdash login' first")
	case status == http.StatusNotFound:
		msg := "Resource not found"
		if detail != "" {
			msg = detail
		}
		return errors.New(errors.ErrNotFound, msg, "")
	case status >= 500:
		g.logger.Error("server error %d: %s", status, detail)
		return errors.New(errors.ErrTransport,
			fmt.Sprintf("Server error (HTTP %d)", status),
			"Try again; if it persists, check the server logs")
	default:
		msg := fmt.Sprintf("Request rejected (HTTP %d)", status)
		if detail != "" {
			msg = detail
		}
		return errors.New(errors.ErrTransport, msg, "")
	}
}
