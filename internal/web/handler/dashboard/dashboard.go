// Package dashboard provides the landing page of signed in users.
package dashboard

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/middleware/guard"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/navigation"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/session"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard"
)

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	env *handler.Env
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler behind the guard.
func (s *Service) Init(app *fiber.App, env *handler.Env) error {
	if err := env.Check(app); err != nil {
		return err
	}

	s.env = env

	app.Get(Path, env.Guard, s.Get)

	return nil
}

// Get renders the dashboard.
func (s *Service) Get(c *fiber.Ctx) error {
	actx := guard.Current(c)

	nav := navigation.NewContext("Dashboard", navigation.SectionAccount, "dashboard").
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb("Dashboard", Path, true)

	data := fiber.Map{}
	if tenant, ok := session.FromCtx(c).Tenant(); ok {
		data["Tenant"] = tenant
	}

	c.Set(fiber.HeaderCacheControl, "no-store")

	return c.Render(TemplateName, handler.Page(nav, actx, data), handler.BaseLayout)
}
