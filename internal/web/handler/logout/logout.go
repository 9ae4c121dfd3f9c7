// Package logout ends the session of a browser scope.
package logout

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler"
)

// Path is the logout path.
const Path = handler.RootPath + "logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	env *handler.Env
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, env *handler.Env) error {
	if err := env.Check(app); err != nil {
		return err
	}

	s.env = env

	app.Post(Path, s.Logout)

	return nil
}

// Logout clears the stored session and sends the visitor to the login page.
// It waits for a pending verification, which the gateway timeout bounds.
// The cookie sync middleware removes the auth_token cookie afterwards.
func (s *Service) Logout(c *fiber.Ctx) error {
	// fails only on a done context
	_ = s.env.Session(c).Logout(context.WithoutCancel(c.UserContext())) //nolint:errcheck

	c.Set(fiber.HeaderCacheControl, "no-store")

	return c.Redirect(s.env.LoginPath(), fiber.StatusSeeOther)
}
