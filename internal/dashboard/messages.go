package dashboard

import (
	"time"

	"github.com/rhalstead/wgdash/internal/api"
)

// tickMsg signals a periodic stats refresh.
type tickMsg time.Time

// clientsMsg carries a fresh peer collection from the registry.
type clientsMsg struct {
	clients []api.Client
	err     error
}

// statsMsg carries one stats poll result.
type statsMsg struct {
	stats []api.PeerStats
	err   error
	time  time.Time
}

// createDoneMsg signals completion of an add-client call, success or not.
type createDoneMsg struct {
	err error
}

// actionDoneMsg signals completion of an enable/disable/remove call.
type actionDoneMsg struct {
	action string
	err    error
}
