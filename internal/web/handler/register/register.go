// Package register provides the account registration page.
package register

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GoPowerDNS-Admin/authportal/internal/auth"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/navigation"
)

const (
	// Path is the path to the registration page.
	Path = handler.RootPath + "register"

	// TemplateName is the name of the registration template.
	TemplateName = "register"

	// SuccessTemplateName is rendered after a successful registration.
	SuccessTemplateName = "register_success"

	msgInvalidForm = "Invalid form data"
)

// Service is the register handler service.
type Service struct {
	handler.Service
	env *handler.Env
}

// Handler is the register handler.
var Handler = Service{}

// Init initializes the register handler.
func (s *Service) Init(app *fiber.App, env *handler.Env) error {
	if err := env.Check(app); err != nil {
		return err
	}

	s.env = env

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
	})

	return nil
}

// Get renders the empty registration form.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, auth.RegisterForm{}, auth.RegisterResult{})
}

// Post validates the form and registers the account with the gateway.
func (s *Service) Post(c *fiber.Ctx) error {
	var form auth.RegisterForm

	if err := c.BodyParser(&form); err != nil {
		return s.render(c.Status(fiber.StatusBadRequest), form, auth.RegisterResult{Error: msgInvalidForm})
	}

	res := s.env.Session(c).Register(c.UserContext(), form)
	if !res.Success {
		return s.render(c.Status(fiber.StatusUnprocessableEntity), form, res)
	}

	nav := navigation.NewContext("Check your inbox", navigation.SectionAccount, "register")

	return c.Render(SuccessTemplateName, handler.Page(nav, nil, fiber.Map{
		"Message": res.Message,
		"Email":   form.Email,
	}), handler.BaseLayout)
}

func (s *Service) render(c *fiber.Ctx, form auth.RegisterForm, res auth.RegisterResult) error {
	nav := navigation.NewContext("Create account", navigation.SectionAccount, "register")

	// passwords are never echoed back
	form.Password, form.ConfirmPassword = "", ""

	return c.Render(TemplateName, handler.Page(nav, nil, fiber.Map{
		"Form":  form,
		"Error": res.Error,
		"Field": res.Field,
	}), handler.BaseLayout)
}
