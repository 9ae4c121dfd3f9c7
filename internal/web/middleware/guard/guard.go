// Package guard blocks protected handlers until the session context of the
// browser scope has settled, and keeps the auth_token cookie in line with it.
package guard

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/GoPowerDNS-Admin/authportal/internal/web/authstate"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/cookie"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/routes"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/session"
)

const (
	localsContext = "authstate.context"

	// DefaultInitWait is how long a request waits for initialization before
	// the fallback is shown.
	DefaultInitWait = 2 * time.Second
)

// Config defines the config for the guard middleware.
type Config struct {
	Registry  *authstate.Registry
	LoginPath string
	InitWait  time.Duration
	// Fallback renders the placeholder while the session is initializing.
	Fallback fiber.Handler
}

// New creates the guard middleware. Authenticated requests continue with
// the session context in c.Locals, see Current.
func New(cfg Config) fiber.Handler {
	if cfg.Registry == nil {
		panic("guard: registry cannot be nil")
	}

	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}

	if cfg.InitWait <= 0 {
		cfg.InitWait = DefaultInitWait
	}

	if cfg.Fallback == nil {
		cfg.Fallback = DefaultFallback
	}

	return func(c *fiber.Ctx) error {
		actx := cfg.Registry.Get(session.FromCtx(c))

		waitCtx, cancel := context.WithTimeout(c.UserContext(), cfg.InitWait)
		_ = actx.Wait(waitCtx)

		cancel()

		switch actx.State() {
		case authstate.Initializing:
			c.Set(fiber.HeaderCacheControl, "no-store")
			return cfg.Fallback(c)
		case authstate.Unauthenticated:
			c.Set(fiber.HeaderCacheControl, "no-store")
			return c.Redirect(routes.LoginURL(cfg.LoginPath, c.Path()), fiber.StatusFound)
		case authstate.Authenticated:
		}

		c.Locals(localsContext, actx)

		return c.Next()
	}
}

// DefaultFallback renders the loading page, which reloads itself shortly.
func DefaultFallback(c *fiber.Ctx) error {
	return c.Render("loading", fiber.Map{
		"Title":   "Loading",
		"Refresh": 1,
	})
}

// Current returns the authenticated session context stored by the guard, or nil.
func Current(c *fiber.Ctx) *authstate.Context {
	actx, _ := c.Locals(localsContext).(*authstate.Context)
	return actx
}

// SyncConfig defines the config for the Sync middleware.
type SyncConfig struct {
	// Next defines a function to skip this middleware when it returns true.
	Next func(c *fiber.Ctx) bool

	Registry *authstate.Registry
	Mirror   cookie.Mirror
}

// Sync mirrors the session context token into the auth_token cookie after
// the handler ran. Nothing is emitted while the context is initializing or
// when the request cookie already matches.
func Sync(cfg SyncConfig) fiber.Handler {
	if cfg.Registry == nil {
		panic("guard: registry cannot be nil")
	}

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		err := c.Next()

		scope := session.FromCtx(c)
		if scope.ID() == "" {
			return err
		}

		actx := cfg.Registry.Get(scope)

		select {
		case <-actx.Ready():
		default:
			return err
		}

		token := actx.Token()
		current, hasCookie := cookie.FromRequest(c)

		switch {
		case token != "" && token != current:
			cfg.Mirror.ApplySet(c, token)
		case token == "" && hasCookie:
			cfg.Mirror.ApplyClear(c)
		}

		return err
	}
}
