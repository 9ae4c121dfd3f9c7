package session

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ScopeCookie holds the browser scope identifier.
const ScopeCookie = "sid"

const localsScope = "session.scope"

// ScopeConfig configures ScopeMiddleware.
type ScopeConfig struct {
	// Next defines a function to skip this middleware when it returns true.
	Next func(c *fiber.Ctx) bool

	Store   *Store
	DevMode bool
	// MaxAge is the lifetime of the sid cookie. Zero makes it a browser-session cookie.
	MaxAge time.Duration
}

// ScopeMiddleware resolves the browser scope of the request, issuing a new
// sid cookie when the request carries none or a malformed one.
func ScopeMiddleware(cfg ScopeConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		id := strings.Clone(c.Cookies(ScopeCookie))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()

			c.Cookie(&fiber.Cookie{
				Name:     ScopeCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(cfg.MaxAge.Seconds()),
				Secure:   !cfg.DevMode,
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		c.Locals(localsScope, cfg.Store.Scope(id))

		return c.Next()
	}
}

// FromCtx returns the browser scope resolved by ScopeMiddleware, or nil.
func FromCtx(c *fiber.Ctx) *Scoped {
	scope, _ := c.Locals(localsScope).(*Scoped)
	return scope
}
