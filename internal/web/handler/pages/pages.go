// Package pages serves the public pages. They never wait for the session
// except the home page, which sends signed in visitors to the landing page.
package pages

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GoPowerDNS-Admin/authportal/internal/web/authstate"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/navigation"
)

const (
	// HomeTemplateName is the name of the welcome page template.
	HomeTemplateName = "home"

	// PageTemplateName is the template of the static pages.
	PageTemplateName = "page"
)

// Page is a static public page.
type Page struct {
	Path  string
	Title string
	Lead  string
}

// Static lists the public static pages.
var Static = []Page{ //nolint:gochecknoglobals
	{Path: "/about", Title: "About", Lead: "Who we are and what we build."},
	{Path: "/contact", Title: "Contact", Lead: "Reach our team."},
	{Path: "/pricing", Title: "Pricing", Lead: "Plans for every team size."},
}

// Service is the public pages handler service.
type Service struct {
	handler.Service
	env *handler.Env
}

// Handler is the public pages handler.
var Handler = Service{}

// Init registers the home page and the static pages.
func (s *Service) Init(app *fiber.App, env *handler.Env) error {
	if err := env.Check(app); err != nil {
		return err
	}

	s.env = env

	app.Get(handler.RootPath, s.Home)

	for _, p := range Static {
		app.Get(p.Path, s.static(p))
	}

	return nil
}

// Home redirects signed in visitors to the landing page and shows the
// welcome page to everybody else.
func (s *Service) Home(c *fiber.Ctx) error {
	actx := s.env.SettledSession(c)
	if actx.State() == authstate.Authenticated {
		return c.Redirect(s.env.LandingPath(), fiber.StatusFound)
	}

	nav := navigation.NewContext(s.env.Cfg.Title, navigation.SectionPublic, "home")

	return c.Render(HomeTemplateName, handler.Page(nav, actx, nil), handler.BaseLayout)
}

func (s *Service) static(p Page) fiber.Handler {
	return func(c *fiber.Ctx) error {
		nav := navigation.NewContext(p.Title, navigation.SectionPublic, p.Path).
			AddBreadcrumb("Home", handler.RootPath, false).
			AddBreadcrumb(p.Title, p.Path, true)

		// the menu reflects the session without waiting for it
		return c.Render(PageTemplateName, handler.Page(nav, s.env.Session(c), fiber.Map{
			"Lead": p.Lead,
		}), handler.BaseLayout)
	}
}
