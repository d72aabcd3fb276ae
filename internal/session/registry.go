package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/iliyamo/adsaga-console/internal/storage"
)

// Entry is the in-memory state of one browser client.
type Entry struct {
	Store  *Store
	Wizard *Wizard
	Local  *storage.Local

	lastSeen time.Time
}

// Deps are shared by every entry a Registry creates.
type Deps struct {
	Storage   storage.Store
	Sealer    *storage.Sealer
	Auth      Authenticator
	Registrar Registrar
	Events    Publisher
	Logger    *slog.Logger
}

// Registry maps client identifiers to their in-memory state.  Entries idle
// for longer than the configured TTL are dropped; their persisted storage
// is kept, so a returning client finds its token but is anonymous again.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*Entry
	deps    Deps
	idle    time.Duration
	now     func() time.Time
}

func NewRegistry(deps Deps, idle time.Duration) *Registry {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Registry{
		entries: make(map[string]*Entry),
		deps:    deps,
		idle:    idle,
		now:     time.Now,
	}
}

// Get returns the entry for clientID, creating it on first use.
func (r *Registry) Get(ctx context.Context, clientID string) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[clientID]; ok {
		e.lastSeen = r.now()
		return e
	}
	local := storage.NewLocal(r.deps.Storage, r.deps.Sealer, clientID)
	store := NewStore(ctx, local, r.deps.Auth, r.deps.Events, r.deps.Logger)
	e := &Entry{
		Store:    store,
		Wizard:   NewWizard(r.deps.Registrar, store),
		Local:    local,
		lastSeen: r.now(),
	}
	// a finished wizard would otherwise block a new registration after expiry
	store.OnExpire(e.Wizard.Reset)
	r.entries[clientID] = e
	return e
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep drops idle entries and returns how many were removed.
func (r *Registry) Sweep() int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			n++
		}
	}
	return n
}

// Run sweeps periodically until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) {
	if r.idle <= 0 {
		return
	}
	interval := r.idle / 4
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(); n > 0 {
				r.deps.Logger.Debug("session: swept idle clients", "count", n)
			}
		}
	}
}
