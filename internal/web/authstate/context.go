// Package authstate holds the live authentication state of each browser
// scope. A Context starts in Initializing, re-verifies the stored session
// once, and then moves between Unauthenticated and Authenticated through
// Login and Logout.
package authstate

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/authportal/internal/auth"
	"github.com/GoPowerDNS-Admin/authportal/internal/identity"
)

// State is the authentication state of a Context.
type State int

const (
	// Initializing is the state until the stored session has been verified.
	Initializing State = iota
	// Unauthenticated means no usable session.
	Unauthenticated
	// Authenticated means both a user and a token are present.
	Authenticated
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Authenticator is the subset of *auth.Client used by a Context.
type Authenticator interface {
	Login(ctx context.Context, store auth.Store, email, password string) auth.LoginResult
	Register(ctx context.Context, form auth.RegisterForm) auth.RegisterResult
	VerifyStoredToken(ctx context.Context, store auth.Store) auth.VerifyResult
	Record(ctx context.Context, ev auth.ActivityEvent)
}

// Context is the authentication state of one browser scope. It is safe for
// concurrent use; the lock is never held across gateway calls.
type Context struct {
	store  auth.Store
	client Authenticator

	mu      sync.RWMutex
	loading bool
	user    *identity.User
	token   string

	subMu     sync.Mutex
	subs      map[int]func(token string)
	nextSubID int

	once  sync.Once
	ready chan struct{}
}

// New creates a Context in the Initializing state. Call Start to run the
// initial verification.
func New(store auth.Store, client Authenticator) *Context {
	return &Context{
		store:   store,
		client:  client,
		loading: true,
		ready:   make(chan struct{}),
	}
}

// Start runs the initial verification in its own goroutine. Only the first
// call has an effect.
func (c *Context) Start(ctx context.Context) {
	c.once.Do(func() {
		go c.initialize(ctx)
	})
}

func (c *Context) initialize(ctx context.Context) {
	defer close(c.ready)

	var (
		token string
		user  *identity.User
	)

	storedToken, hasToken := c.store.Token()
	_, hasUser := c.store.User()

	if hasToken && hasUser {
		res := c.client.VerifyStoredToken(ctx, c.store)
		if res.Valid && res.User != nil {
			token, user = storedToken, res.User
		}
	}

	c.mu.Lock()
	c.token, c.user, c.loading = token, user, false
	c.mu.Unlock()

	if token != "" {
		c.notify(token)
	}

	log.Debug().Str("state", c.State().String()).Msg("session context initialized")
}

// Ready is closed once initialization has settled.
func (c *Context) Ready() <-chan struct{} {
	return c.ready
}

// Wait blocks until initialization has settled or ctx is done.
func (c *Context) Wait(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current state, derived from loading, user and token.
func (c *Context) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.state()
}

func (c *Context) state() State {
	switch {
	case c.loading:
		return Initializing
	case c.user != nil && c.token != "":
		return Authenticated
	default:
		return Unauthenticated
	}
}

// Stale reports whether the store was changed behind the back of a settled
// Context, for example by a login or logout served by another instance
// sharing the storage. A stale Context must not be used any longer.
func (c *Context) Stale() bool {
	select {
	case <-c.ready:
	default:
		return false
	}

	token := c.Token()
	stored, ok := c.store.Token()

	if token != "" {
		return !ok || stored != token
	}

	if !ok {
		return false
	}

	_, hasUser := c.store.User()

	return hasUser
}

// Loading reports whether initialization is still running.
func (c *Context) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.loading
}

// User returns the current user, or nil.
func (c *Context) User() *identity.User {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.user
}

// Token returns the current access token, or "".
func (c *Context) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.token
}

// IsAuthenticated reports whether both a user and a token are present.
func (c *Context) IsAuthenticated() bool {
	return c.State() == Authenticated
}

// Login authenticates and adopts the new session on success. It waits for
// initialization first so that a late verification cannot override it.
func (c *Context) Login(ctx context.Context, email, password string) auth.LoginResult {
	if err := c.Wait(ctx); err != nil {
		return auth.LoginResult{Error: auth.MsgLoginFailed}
	}

	res := c.client.Login(ctx, c.store, email, password)
	if !res.Success {
		return res
	}

	c.mu.Lock()
	changed := c.token != res.Token
	c.token, c.user = res.Token, res.User
	c.mu.Unlock()

	if changed {
		c.notify(res.Token)
	}

	return res
}

// Logout clears the stored session and the in-memory state.
func (c *Context) Logout(ctx context.Context) error {
	if err := c.Wait(ctx); err != nil {
		return err
	}

	// store first: a concurrent Stale check must never see a cleared
	// context over a still populated store
	c.store.Clear()

	c.mu.Lock()
	user, hadToken := c.user, c.token != ""
	c.token, c.user = "", nil
	c.mu.Unlock()

	if hadToken {
		c.notify("")
	}

	ev := auth.ActivityEvent{Type: auth.ActivityLogout}
	if user != nil {
		ev.UserID, ev.Email = user.ID, user.Email
	}

	c.client.Record(ctx, ev)

	return nil
}

// Register forwards to the auth client. It does not change the state.
func (c *Context) Register(ctx context.Context, form auth.RegisterForm) auth.RegisterResult {
	return c.client.Register(ctx, form)
}

// OnTokenChange registers fn to be called with the new token whenever it
// changes; "" means cleared. The returned func removes the subscription.
func (c *Context) OnTokenChange(fn func(token string)) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	if c.subs == nil {
		c.subs = make(map[int]func(string))
	}

	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn

	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()

		delete(c.subs, id)
	}
}

func (c *Context) notify(token string) {
	c.subMu.Lock()
	fns := make([]func(string), 0, len(c.subs))

	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(token)
	}
}
