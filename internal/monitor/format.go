package monitor

import (
	"fmt"
	"time"
)

// Binary magnitude steps for byte formatting.
const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
)

// OnlineWindow is how recent a handshake must be for a peer to count as
// online. WireGuard renegotiates roughly every two minutes, so 2.5 minutes
// of silence means the tunnel has gone quiet. A heuristic, not a guarantee
// of live traffic.
const OnlineWindow = 150 * time.Second

// FormatBytes renders a byte count with 1024-based units: integer bytes
// below 1 KB, one decimal for KB and MB, two decimals for GB.
func FormatBytes(b int64) string {
	switch {
	case b < kib:
		return fmt.Sprintf("%d B", b)
	case b < mib:
		return fmt.Sprintf("%.1f KB", float64(b)/kib)
	case b < gib:
		return fmt.Sprintf("%.1f MB", float64(b)/mib)
	default:
		return fmt.Sprintf("%.2f GB", float64(b)/gib)
	}
}

// Online reports whether a peer counts as online at the given instant.
// A peer with no recorded handshake is offline.
func Online(lastHandshakeSecs *int64, now time.Time) bool {
	if lastHandshakeSecs == nil {
		return false
	}
	age := now.Unix() - *lastHandshakeSecs
	return age < int64(OnlineWindow/time.Second)
}

// FormatHandshakeAge renders how long ago a peer last completed a handshake,
// or "—" when it never has.
func FormatHandshakeAge(lastHandshakeSecs *int64, now time.Time) string {
	if lastHandshakeSecs == nil {
		return "—"
	}
	age := time.Duration(now.Unix()-*lastHandshakeSecs) * time.Second
	if age < 0 {
		age = 0
	}
	switch {
	case age < time.Minute:
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	}
}
