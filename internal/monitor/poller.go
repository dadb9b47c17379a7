package monitor

import (
	"context"
	"time"

	"github.com/rhalstead/wgdash/internal/api"
	"github.com/rhalstead/wgdash/internal/logger"
)

// StatsAPI is the slice of the gateway the poller needs.
type StatsAPI interface {
	GetStats(ctx context.Context) ([]api.PeerStats, error)
}

// Poller drives a Snapshot from a fixed-cadence stats fetch. The dashboard
// uses its own tick loop instead; this exists for headless consumers of the
// snapshot. A failed cycle is recorded and the next tick still fires.
type Poller struct {
	api      StatsAPI
	snapshot *Snapshot
	interval time.Duration
	logger   logger.Logger
}

// NewPoller creates a poller feeding the given snapshot.
func NewPoller(gw StatsAPI, snapshot *Snapshot, interval time.Duration, log logger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logger.NewEnvLogger("[monitor]")
	}
	return &Poller{
		api:      gw,
		snapshot: snapshot,
		interval: interval,
		logger:   log,
	}
}

// Run polls until ctx is cancelled. The first fetch happens immediately so
// consumers are not blank for a full interval. Always returns ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	p.pollOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("stats poller stopped")
			return ctx.Err()
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

// pollOnce performs a single stats fetch cycle.
func (p *Poller) pollOnce(ctx context.Context) {
	stats, err := p.api.GetStats(ctx)
	if err != nil {
		// Keep the previous snapshot; the next tick retries on schedule.
		p.logger.Warn("stats poll failed: %v", err)
		p.snapshot.RecordFailure(err)
		return
	}
	p.snapshot.Replace(stats, time.Now())
}
