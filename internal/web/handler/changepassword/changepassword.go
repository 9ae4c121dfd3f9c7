// Package changepassword shows the notice for accounts that must change
// their password before using the portal.
package changepassword

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/middleware/guard"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/navigation"
)

// TemplateName is the name of the change password template.
const TemplateName = "change_password"

// Service is the change password handler service.
type Service struct {
	handler.Service
	env *handler.Env
}

// Handler is the change password handler.
var Handler = Service{}

// Init initializes the handler behind the guard.
func (s *Service) Init(app *fiber.App, env *handler.Env) error {
	if err := env.Check(app); err != nil {
		return err
	}

	s.env = env

	app.Get(env.ChangePasswordPath(), env.Guard, s.Get)

	return nil
}

// Get renders the notice.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Change password", navigation.SectionAccount, "change-password")

	c.Set(fiber.HeaderCacheControl, "no-store")

	return c.Render(TemplateName, handler.Page(nav, guard.Current(c), fiber.Map{
		"Continue": s.env.LandingPath(),
	}), handler.BaseLayout)
}
