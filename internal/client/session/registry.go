package session

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/ums/internal/client/apiclient"
	"github.com/dmitrijs2005/ums/internal/client/repositories/sessions"
	"github.com/dmitrijs2005/ums/internal/logging"
)

type registryEntry struct {
	manager  *Manager
	lastSeen time.Time
}

// Registry hands out one Manager per browser session id. Managers idle for
// longer than the TTL are dropped from memory; their stored state stays and a
// later request hydrates a fresh Manager from it.
type Registry struct {
	store  sessions.Repository
	client *apiclient.Client
	logger logging.Logger
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*registryEntry
}

func NewRegistry(store sessions.Repository, client *apiclient.Client, logger logging.Logger, ttl time.Duration) *Registry {
	return &Registry{
		store:   store,
		client:  client,
		logger:  logger,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*registryEntry),
	}
}

// Manager returns the Manager for sid, creating it on first sight.
func (r *Registry) Manager(sid string) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[sid]
	if !ok {
		e = &registryEntry{manager: NewManager(sid, r.store, r.client, r.logger)}
		r.entries[sid] = e
	}
	e.lastSeen = r.now()
	return e.manager
}

// Remove forgets sid. Its stored state is left to Logout or the sweeper.
func (r *Registry) Remove(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sid)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Evict drops Managers not used within the TTL and returns how many went.
func (r *Registry) Evict() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evictLocked()
}

func (r *Registry) evictLocked() int {
	cutoff := r.now().Add(-r.ttl)
	n := 0
	for sid, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, sid)
			n++
		}
	}
	return n
}

// Sweep evicts idle Managers and purges stored sessions older than the TTL.
// Sessions of Managers still in memory are kept and their storage refreshed.
// The registry stays locked throughout so no Manager hydrates from a
// namespace that is being purged.
func (r *Registry) Sweep(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := r.evictLocked()
	live := make([]string, 0, len(r.entries))
	for sid := range r.entries {
		live = append(live, sid)
	}
	purged, err := r.store.Purge(ctx, r.now().Add(-r.ttl), live...)
	if err != nil {
		r.logger.Warn(ctx, "session purge failed", "error", err)
		return
	}
	if evicted > 0 || purged > 0 {
		r.logger.Info(ctx, "session sweep", "evicted", evicted, "purged", purged)
	}
}

// Start runs Sweep every interval until ctx is done.
func (r *Registry) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 || r.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Sweep(ctx)
			}
		}
	}()
}
