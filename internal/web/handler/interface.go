package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/authportal/internal/auth"
	"github.com/GoPowerDNS-Admin/authportal/internal/config"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/authstate"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/session"
)

// ErrNilEnv is returned by Init when a required dependency is missing.
var ErrNilEnv = errors.New(ErrNilEnvFatalLogMsg)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, env *Env) error
}

// Env carries the dependencies shared by all handlers.
type Env struct {
	Cfg      *config.Config
	Registry *authstate.Registry
	Client   *auth.Client
	// Guard protects handlers that need an authenticated session.
	Guard fiber.Handler
	// DB is the activity journal, nil when disabled.
	DB *gorm.DB
}

// Check returns ErrNilEnv unless app and the required members are set.
func (e *Env) Check(app *fiber.App) error {
	if app == nil || e == nil || e.Cfg == nil || e.Registry == nil || e.Client == nil || e.Guard == nil {
		return ErrNilEnv
	}

	return nil
}

// Session returns the session context of the request's browser scope.
func (e *Env) Session(c *fiber.Ctx) *authstate.Context {
	return e.Registry.Get(session.FromCtx(c))
}

// SettledSession is Session after waiting up to the guard's init wait for
// the context to settle. The context may still be initializing.
func (e *Env) SettledSession(c *fiber.Ctx) *authstate.Context {
	actx := e.Session(c)

	wait := e.Cfg.Guard.InitWait
	if wait <= 0 {
		wait = 2 * time.Second //nolint:mnd
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), wait)
	defer cancel()

	_ = actx.Wait(ctx)

	return actx
}

// LoginPath returns the configured login path.
func (e *Env) LoginPath() string {
	return pathOr(e.Cfg.Routes.LoginPath, "/login")
}

// LandingPath returns the configured landing path after login.
func (e *Env) LandingPath() string {
	return pathOr(e.Cfg.Routes.LandingPath, "/dashboard")
}

// ChangePasswordPath returns the configured change password path.
func (e *Env) ChangePasswordPath() string {
	return pathOr(e.Cfg.Routes.ChangePasswordPath, "/change-password")
}

func pathOr(p, fallback string) string {
	if p == "" {
		return fallback
	}

	return p
}
