package gatekeeper

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/authportal/internal/web/routes"
)

func TestDecide(t *testing.T) {
	cl := routes.Default()

	tests := []struct {
		name     string
		path     string
		hasToken bool
		want     Decision
	}{
		{name: "protected without token", path: "/dashboard", want: RedirectLogin},
		{name: "protected with token", path: "/dashboard", hasToken: true, want: Allow},
		{name: "auth-only without token", path: "/login", want: Allow},
		{name: "auth-only with token", path: "/register", hasToken: true, want: RedirectLanding},
		{name: "public without token", path: "/about", want: Allow},
		{name: "public with token", path: "/pricing", hasToken: true, want: Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(cl, tt.path, tt.hasToken))
		})
	}
}

func newApp(cfg ...Config) *fiber.App {
	app := fiber.New()
	app.Use(New(cfg...))
	app.Use(func(c *fiber.Ctx) error {
		return c.SendString("reached " + c.Path())
	})

	return app
}

func request(t *testing.T, app *fiber.App, target, cookieHeader string) (int, string) {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodGet, target, nil)
	if cookieHeader != "" {
		req.Header.Set(fiber.HeaderCookie, cookieHeader)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp.StatusCode, resp.Header.Get(fiber.HeaderLocation)
}

func TestNew_ProtectedWithoutCookieRedirectsToLogin(t *testing.T) {
	app := newApp()

	for _, p := range []string{"/dashboard", "/profile", "/settings/security", "/admin/users", "/invoices/42"} {
		t.Run(p, func(t *testing.T) {
			status, location := request(t, app, p, "")

			assert.Equal(t, fiber.StatusFound, status)
			assert.Equal(t, "/login?redirect="+url.QueryEscape(p), location)

			u, err := url.Parse(location)
			require.NoError(t, err)
			assert.Equal(t, "/login", u.Path)
			assert.Equal(t, p, u.Query().Get("redirect"))
		})
	}
}

func TestNew_AuthOnlyWithCookieRedirectsToLanding(t *testing.T) {
	app := newApp()

	for _, p := range []string{"/login", "/register"} {
		status, location := request(t, app, p, "auth_token=stale-or-not")

		assert.Equal(t, fiber.StatusFound, status)
		assert.Equal(t, "/dashboard", location)
	}
}

func TestNew_Allows(t *testing.T) {
	app := newApp()

	tests := []struct {
		path   string
		cookie string
	}{
		{"/dashboard", "auth_token=abc"},
		{"/login", ""},
		{"/login", "auth_token="},
		{"/", ""},
		{"/about", "auth_token=abc"},
		{"/static/css/app.css", ""},
		{"/dashboard/logo.png", ""},
		{"/metrics", ""},
		{"/checkalive", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, location := request(t, app, tt.path, tt.cookie)

			assert.Equal(t, fiber.StatusOK, status)
			assert.Empty(t, location)
		})
	}
}

func TestNew_CustomConfig(t *testing.T) {
	app := newApp(Config{
		Classifier:  routes.Classifier{Protected: []string{"/app"}, AuthOnly: []string{"/signin"}},
		LoginPath:   "/signin",
		LandingPath: "/app/home",
		Next: func(c *fiber.Ctx) bool {
			return c.Get("X-Skip") != ""
		},
	})

	status, location := request(t, app, "/app/settings", "")
	assert.Equal(t, fiber.StatusFound, status)
	assert.Equal(t, "/signin?redirect=%2Fapp%2Fsettings", location)

	status, location = request(t, app, "/signin", "auth_token=x")
	assert.Equal(t, fiber.StatusFound, status)
	assert.Equal(t, "/app/home", location)

	status, _ = request(t, app, "/dashboard", "")
	assert.Equal(t, fiber.StatusOK, status)

	req := httptest.NewRequest(fiber.MethodGet, "/app/settings", nil)
	req.Header.Set("X-Skip", "1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
