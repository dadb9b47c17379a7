// Package registry maintains the cached collection of peer records and the
// CRUD operations over it. The cache follows one rule: mutations never write
// into it, they only mark it stale, so every record the registry hands out
// originated from a server list response. That costs one extra round trip
// after each write and buys strict agreement with the server, which is the
// side that assigns ids, key material, and addresses.
package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rhalstead/wgdash/internal/api"
	"github.com/rhalstead/wgdash/internal/errors"
	"github.com/rhalstead/wgdash/internal/logger"
)

// API is the slice of the gateway the registry needs.
type API interface {
	ListClients(ctx context.Context) ([]api.Client, error)
	CreateClient(ctx context.Context, name string) (api.Client, error)
	GetClient(ctx context.Context, id string) (api.Client, error)
	UpdateClient(ctx context.Context, id string, patch api.UpdateClientRequest) error
	RemoveClient(ctx context.Context, id string) error
	EnableClient(ctx context.Context, id string) error
	DisableClient(ctx context.Context, id string) error
}

// Registry is the cache-backed peer CRUD surface.
type Registry struct {
	api    API
	logger logger.Logger

	mu     sync.Mutex
	cached []api.Client
	fresh  bool
	gen    uint64 // bumped on every invalidation

	group singleflight.Group
}

// New creates an empty registry; the first List fetches from the server.
func New(gw API, log logger.Logger) *Registry {
	if log == nil {
		log = logger.NewEnvLogger("[registry]")
	}
	return &Registry{
		api:    gw,
		logger: log,
	}
}

// List returns the peer collection, serving the cache while it is fresh.
// Concurrent calls during a miss share a single fetch: the flight is keyed
// by the cache generation, so a fetch started before an invalidation can
// never satisfy a read that started after it.
func (r *Registry) List(ctx context.Context) ([]api.Client, error) {
	r.mu.Lock()
	if r.fresh {
		out := cloneClients(r.cached)
		r.mu.Unlock()
		return out, nil
	}
	gen := r.gen
	r.mu.Unlock()

	key := fmt.Sprintf("clients@%d", gen)
	v, err, shared := r.group.Do(key, func() (interface{}, error) {
		clients, err := r.api.ListClients(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		if r.gen == gen {
			r.cached = clients
			r.fresh = true
		}
		r.mu.Unlock()
		return clients, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		r.logger.Debug("list request shared with a concurrent caller")
	}
	return cloneClients(v.([]api.Client)), nil
}

// Get fetches a single peer record. Uncached pass-through; only the list
// collection carries freshness state.
func (r *Registry) Get(ctx context.Context, id string) (api.Client, error) {
	return r.api.GetClient(ctx, id)
}

// Create asks the server to mint a new peer. An empty name (after trimming)
// is rejected before any network traffic. On success the list cache is
// invalidated; the new record is NOT spliced in, because only a subsequent
// list reflects the server-assigned fields alongside its siblings.
func (r *Registry) Create(ctx context.Context, name string) (api.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return api.Client{}, errors.New(errors.ErrValidate,
			"Client name is empty",
			"Provide a non-empty name for the new client")
	}

	created, err := r.api.CreateClient(ctx, name)
	if err != nil {
		return api.Client{}, err
	}

	r.Invalidate()
	r.logger.Info("created client %s (%s)", created.Name, created.ID)
	return created, nil
}

// Update applies a partial patch to a peer record and invalidates the list
// cache on success.
func (r *Registry) Update(ctx context.Context, id string, patch api.UpdateClientRequest) error {
	if err := r.api.UpdateClient(ctx, id, patch); err != nil {
		return err
	}
	r.Invalidate()
	return nil
}

// Remove deletes a peer record. Removing an unknown id surfaces the server's
// error and leaves the cache untouched.
func (r *Registry) Remove(ctx context.Context, id string) error {
	if err := r.api.RemoveClient(ctx, id); err != nil {
		return err
	}
	r.Invalidate()
	r.logger.Info("removed client %s", id)
	return nil
}

// Enable turns a peer on and invalidates the list cache on success.
func (r *Registry) Enable(ctx context.Context, id string) error {
	if err := r.api.EnableClient(ctx, id); err != nil {
		return err
	}
	r.Invalidate()
	return nil
}

// Disable turns a peer off and invalidates the list cache on success.
func (r *Registry) Disable(ctx context.Context, id string) error {
	if err := r.api.DisableClient(ctx, id); err != nil {
		return err
	}
	r.Invalidate()
	return nil
}

// Invalidate marks the list cache stale so the next List performs a fresh
// fetch before returning.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	r.fresh = false
	r.gen++
	r.mu.Unlock()
}

// cloneClients copies the collection so callers can never reach into the
// registry's owned state.
func cloneClients(in []api.Client) []api.Client {
	out := make([]api.Client, len(in))
	copy(out, in)
	return out
}
