// Package profile shows the account of the signed in user together with
// the latest entries of the activity journal.
package profile

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/authportal/internal/db/controller/activity"
	"github.com/GoPowerDNS-Admin/authportal/internal/db/models"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/middleware/guard"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/navigation"
)

const (
	// Path is the path to the profile page.
	Path = handler.RootPath + "profile"

	// TemplateName is the name of the profile template.
	TemplateName = "profile"

	// ActivityLimit is the number of journal entries shown.
	ActivityLimit = 20
)

// Service is the profile handler service.
type Service struct {
	handler.Service
	env *handler.Env
}

// Handler is the profile handler.
var Handler = Service{}

// Init initializes the profile handler behind the guard.
func (s *Service) Init(app *fiber.App, env *handler.Env) error {
	if err := env.Check(app); err != nil {
		return err
	}

	s.env = env

	app.Get(Path, env.Guard, s.Get)

	return nil
}

// Get renders the profile page.
func (s *Service) Get(c *fiber.Ctx) error {
	actx := guard.Current(c)
	user := actx.User()

	nav := navigation.NewContext("Profile", navigation.SectionAccount, "profile").
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb("Profile", Path, true)

	var entries []models.Activity

	if s.env.DB != nil {
		var err error

		entries, err = activity.ListByEmail(c.UserContext(), s.env.DB, user.Email, ActivityLimit)
		if err != nil {
			log.Error().Err(err).Msg("can't load activity journal")
		}
	}

	c.Set(fiber.HeaderCacheControl, "no-store")

	return c.Render(TemplateName, handler.Page(nav, actx, fiber.Map{
		"Profile":        user,
		"Activity":       entries,
		"JournalEnabled": s.env.DB != nil,
	}), handler.BaseLayout)
}
