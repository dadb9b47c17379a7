// Package monitor owns the live connectivity picture: the per-peer traffic
// and handshake snapshot, the online heuristic, and byte formatting. Stats
// are ephemeral; each successful poll replaces the whole collection and no
// history is kept.
package monitor

import (
	"sync"
	"time"

	"github.com/rhalstead/wgdash/internal/api"
)

// DefaultInterval is the stats polling cadence.
const DefaultInterval = 10 * time.Second

// Snapshot is the single owner of the current stats collection. A failed
// poll leaves the previous snapshot in place; stale-but-present beats a
// blanked display.
type Snapshot struct {
	mu         sync.Mutex
	stats      map[string]api.PeerStats
	lastUpdate time.Time
	lastErr    error
}

// NewSnapshot creates an empty snapshot; every peer reads as "no stats yet".
func NewSnapshot() *Snapshot {
	return &Snapshot{
		stats: make(map[string]api.PeerStats),
	}
}

// Replace swaps in a complete new stats collection. A peer absent from the
// new collection has no stats this cycle; nothing is merged or retained
// from the previous one.
func (s *Snapshot) Replace(stats []api.PeerStats, at time.Time) {
	fresh := make(map[string]api.PeerStats, len(stats))
	for _, ps := range stats {
		fresh[ps.PublicKey] = ps
	}

	s.mu.Lock()
	s.stats = fresh
	s.lastUpdate = at
	s.lastErr = nil
	s.mu.Unlock()
}

// RecordFailure notes a failed poll cycle without touching the stats.
func (s *Snapshot) RecordFailure(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// Lookup returns the stats for a public key, reporting absence explicitly.
func (s *Snapshot) Lookup(publicKey string) (api.PeerStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps, ok := s.stats[publicKey]
	return ps, ok
}

// OnlineCount returns how many peers count as online at the given instant.
func (s *Snapshot) OnlineCount(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ps := range s.stats {
		if Online(ps.LastHandshakeSecs, now) {
			n++
		}
	}
	return n
}

// LastUpdate returns when the snapshot last replaced successfully.
func (s *Snapshot) LastUpdate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdate
}

// LastError returns the most recent poll failure, or nil after a success.
func (s *Snapshot) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
