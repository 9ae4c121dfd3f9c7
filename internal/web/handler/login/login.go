// Package login provides the sign in page.
package login

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/navigation"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/routes"
)

const (
	// TemplateName is the name of the login template.
	TemplateName = "login"
)

// Form is the submitted login form.
type Form struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	Redirect string `form:"redirect"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	env *handler.Env
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, env *handler.Env) error {
	if err := env.Check(app); err != nil {
		return err
	}

	s.env = env

	app.Route(env.LoginPath(), func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
	})

	return nil
}

// Get renders the login page. The gatekeeper already sent signed in
// visitors with a token cookie away.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, Form{Redirect: c.Query("redirect")}, "")
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	var form Form

	if err := c.BodyParser(&form); err != nil {
		log.Debug().Err(err).Msg(ErrInvalidFormData.Error())
		return s.render(c.Status(fiber.StatusBadRequest), form, ErrInvalidFormData.Error())
	}

	form.Email = strings.TrimSpace(form.Email)
	if form.Email == "" || form.Password == "" {
		return s.render(c.Status(fiber.StatusUnprocessableEntity), form, MsgMissingCredentials)
	}

	// the login completes even if the browser goes away
	ctx := context.WithoutCancel(c.UserContext())

	res := s.env.Session(c).Login(ctx, form.Email, form.Password)
	if !res.Success {
		return s.render(c.Status(fiber.StatusUnauthorized), form, res.Error)
	}

	target := routes.SafeRedirect(form.Redirect, s.env.LandingPath())
	if res.MustChangePassword {
		target = s.env.ChangePasswordPath()
	}

	return c.Redirect(target, fiber.StatusSeeOther)
}

func (s *Service) render(c *fiber.Ctx, form Form, errMsg string) error {
	nav := navigation.NewContext("Sign in", navigation.SectionAccount, "login")

	return c.Render(TemplateName, handler.Page(nav, nil, fiber.Map{
		"Email":    form.Email,
		"Redirect": routes.SafeRedirect(form.Redirect, ""),
		"Error":    errMsg,
	}), handler.BaseLayout)
}
