package api

// Client is a configured VPN peer record as the panel stores it.
// The server assigns the id, key material, and IP addresses; this side never
// fabricates any of those fields.
type Client struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PublicKey    string `json:"public_key"`
	PresharedKey string `json:"preshared_key"`
	IPv4         string `json:"ipv4"`
	IPv6         string `json:"ipv6,omitempty"`
	Enabled      int    `json:"enabled"`
	CreatedAt    string `json:"created_at"`
	ExpiresAt    string `json:"expires_at,omitempty"`
	DownloadURL  string `json:"download_url,omitempty"`
	OneTimeLink  string `json:"one_time_link,omitempty"`
}

// IsEnabled reports whether the peer is enabled. The panel stores the flag as
// an integer column, so anything non-zero counts.
func (c Client) IsEnabled() bool {
	return c.Enabled != 0
}

// Interface is the server-side WireGuard endpoint configuration.
// Singleton per deployment; only listen_port and ipv4_cidr are mutable
// through this client.
type Interface struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PublicKey  string `json:"public_key"`
	ListenPort int    `json:"listen_port"`
	IPv4CIDR   string `json:"ipv4_cidr"`
	IPv6CIDR   string `json:"ipv6_cidr,omitempty"`
}

// PeerStats is one peer's traffic counters and handshake recency.
// LastHandshakeSecs is nil for a peer that has never completed a handshake.
type PeerStats struct {
	PublicKey         string `json:"public_key"`
	RxBytes           int64  `json:"rx_bytes"`
	TxBytes           int64  `json:"tx_bytes"`
	LastHandshakeSecs *int64 `json:"last_handshake_secs,omitempty"`
}

// SessionResponse is the server's answer to both the session check and login.
type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

// Settings holds the server-wide client defaults exposed at /api/config.
type Settings struct {
	WGHost           string `json:"wg_host"`
	WGPort           int    `json:"wg_port"`
	WGDefaultDNS     string `json:"wg_default_dns"`
	WGAllowedIPs     string `json:"wg_allowed_ips"`
	WGDefaultAddress string `json:"wg_default_address"`
}

// LoginRequest carries credentials for POST /api/session.
// TOTPCode is omitted from the body entirely when blank.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code,omitempty"`
}

// CreateClientRequest carries the only client-supplied field of a new peer.
type CreateClientRequest struct {
	Name string `json:"name"`
}

// UpdateClientRequest is a partial patch of a peer record. Pointer fields
// distinguish "leave unchanged" (nil) from "set to the zero value".
type UpdateClientRequest struct {
	Name      *string `json:"name,omitempty"`
	Enabled   *bool   `json:"enabled,omitempty"`
	ExpiresAt *string `json:"expires_at,omitempty"`
}

// InterfacePatch is a partial update of the interface record.
type InterfacePatch struct {
	ListenPort *int    `json:"listen_port,omitempty"`
	IPv4CIDR   *string `json:"ipv4_cidr,omitempty"`
}

// SettingsPatch is a partial update of the server-wide defaults.
type SettingsPatch struct {
	WGHost           *string `json:"wg_host,omitempty"`
	WGPort           *int    `json:"wg_port,omitempty"`
	WGDefaultDNS     *string `json:"wg_default_dns,omitempty"`
	WGAllowedIPs     *string `json:"wg_allowed_ips,omitempty"`
	WGDefaultAddress *string `json:"wg_default_address,omitempty"`
}
