// Package verify provides the email verification landing page and the
// resend verification form.
package verify

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/navigation"
)

const (
	// Path is the link target of the verification email.
	Path = handler.RootPath + "verify"

	// ResendPath is the path of the resend verification form.
	ResendPath = handler.RootPath + "resend-verification"

	// TemplateName is the name of the verification result template.
	TemplateName = "verify"

	// ResendTemplateName is the name of the resend form template.
	ResendTemplateName = "resend"

	// MsgMissingToken is shown when the link carries no token.
	MsgMissingToken = "Verification token is missing"

	// MsgMissingEmail is shown when the resend form has no email.
	MsgMissingEmail = "Email is required"
)

// Service is the verification handler service.
type Service struct {
	handler.Service
	env *handler.Env
}

// Handler is the verification handler.
var Handler = Service{}

// Init initializes the verification handlers.
func (s *Service) Init(app *fiber.App, env *handler.Env) error {
	if err := env.Check(app); err != nil {
		return err
	}

	s.env = env

	app.Get(Path, s.Verify)
	app.Get(ResendPath, s.ResendForm)
	app.Post(ResendPath, s.Resend)

	return nil
}

// Verify confirms the token of the verification link with the gateway.
func (s *Service) Verify(c *fiber.Ctx) error {
	nav := navigation.NewContext("Email verification", navigation.SectionAccount, "verify")

	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return c.Status(fiber.StatusBadRequest).Render(TemplateName, handler.Page(nav, nil, fiber.Map{
			"Error": MsgMissingToken,
		}), handler.BaseLayout)
	}

	res := s.env.Client.VerifyEmail(c.UserContext(), token)
	if !res.OK() {
		c.Status(fiber.StatusBadRequest)
	}

	return c.Render(TemplateName, handler.Page(nav, nil, fiber.Map{
		"Message": res.Message,
		"Error":   res.Error,
	}), handler.BaseLayout)
}

// ResendForm renders the resend form, prefilled from the email query parameter.
func (s *Service) ResendForm(c *fiber.Ctx) error {
	return s.renderResend(c, c.Query("email"), fiber.Map{})
}

// Resend asks the gateway to send a new verification email.
func (s *Service) Resend(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.FormValue("email"))
	if email == "" {
		return s.renderResend(c.Status(fiber.StatusUnprocessableEntity), email, fiber.Map{"Error": MsgMissingEmail})
	}

	res := s.env.Client.ResendVerification(c.UserContext(), email)
	if !res.OK() {
		c.Status(fiber.StatusBadRequest)
	}

	return s.renderResend(c, email, fiber.Map{
		"Message": res.Message,
		"Error":   res.Error,
	})
}

func (s *Service) renderResend(c *fiber.Ctx, email string, data fiber.Map) error {
	nav := navigation.NewContext("Resend verification", navigation.SectionAccount, "resend")
	data["Email"] = email

	return c.Render(ResendTemplateName, handler.Page(nav, nil, data), handler.BaseLayout)
}
