package authstate

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/authportal/internal/metrics"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/session"
)

// DefaultIdleTTL is how long an unused Context is kept.
const DefaultIdleTTL = 30 * time.Minute

type entry struct {
	ctx      *Context
	lastSeen time.Time
}

// Registry holds one Context per browser scope. An evicted scope gets a
// fresh Context on its next request, which verifies the stored session
// again like a full page reload.
type Registry struct {
	client  Authenticator
	idleTTL time.Duration
	now     func() time.Time

	base   context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	contexts map[string]*entry
	closed   bool

	wg sync.WaitGroup
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithIdleTTL sets the idle eviction period. Zero or less disables eviction.
func WithIdleTTL(ttl time.Duration) RegistryOption {
	return func(r *Registry) {
		r.idleTTL = ttl
	}
}

// NewRegistry creates a registry and starts its idle janitor.
func NewRegistry(client Authenticator, opts ...RegistryOption) *Registry {
	base, cancel := context.WithCancel(context.Background())

	r := &Registry{
		client:   client,
		idleTTL:  DefaultIdleTTL,
		now:      time.Now,
		base:     base,
		cancel:   cancel,
		contexts: make(map[string]*entry),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.idleTTL > 0 {
		r.wg.Add(1)

		go r.janitor()
	}

	return r
}

// Get returns the started Context of scope, creating it on first use. A held
// Context whose store has changed underneath (see Context.Stale) is replaced
// by a fresh one that verifies the stored session again. A nil or anonymous
// scope gets a fresh, unregistered Context.
func (r *Registry) Get(scope *session.Scoped) *Context {
	id := scope.ID()
	if id == "" {
		c := New(scope, r.client)
		c.Start(r.base)

		return c
	}

	r.mu.Lock()
	held, ok := r.contexts[id]
	if ok {
		held.lastSeen = r.now()
	}
	r.mu.Unlock()

	// the store is read without the registry lock
	if ok && !held.ctx.Stale() {
		return held.ctx
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, found := r.contexts[id]; found {
		if e != held {
			return e.ctx
		}

		log.Debug().Str("scope", id).Msg("stored session changed elsewhere, restarting context")
		delete(r.contexts, id)
	}

	c := New(scope, r.client)
	c.OnTokenChange(func(token string) {
		log.Debug().Str("scope", id).Bool("cleared", token == "").Msg("session token changed")
	})
	c.Start(r.base)

	if !r.closed {
		r.contexts[id] = &entry{ctx: c, lastSeen: r.now()}
		metrics.ActiveContexts.Set(float64(len(r.contexts)))
	}

	return c
}

// Drop forgets the Context of a scope.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.contexts, id)
	metrics.ActiveContexts.Set(float64(len(r.contexts)))
}

// Len returns the number of held contexts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.contexts)
}

// Close cancels pending initializations, stops the janitor and drops all
// contexts.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}

	r.closed = true
	r.contexts = make(map[string]*entry)
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()

	metrics.ActiveContexts.Set(0)
}

func (r *Registry) janitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(max(r.idleTTL/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-r.base.Done():
			return
		case now := <-ticker.C:
			if n := r.evictIdle(now); n > 0 {
				log.Debug().Int("evicted", n).Msg("idle session contexts evicted")
			}
		}
	}
}

func (r *Registry) evictIdle(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0

	for id, e := range r.contexts {
		if now.Sub(e.lastSeen) < r.idleTTL {
			continue
		}

		select {
		case <-e.ctx.Ready():
		default:
			// still initializing
			continue
		}

		delete(r.contexts, id)

		evicted++
	}

	metrics.ActiveContexts.Set(float64(len(r.contexts)))

	return evicted
}
