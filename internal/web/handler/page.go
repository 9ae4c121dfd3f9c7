package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GoPowerDNS-Admin/authportal/internal/web/authstate"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/navigation"
)

// Page returns the template data shared by every page merged with data.
func Page(nav *navigation.Context, actx *authstate.Context, data fiber.Map) fiber.Map {
	out := fiber.Map{
		"Title":         nav.PageTitle,
		"Nav":           nav,
		"Authenticated": false,
	}

	if actx != nil && actx.IsAuthenticated() {
		out["Authenticated"] = true
		out["User"] = actx.User()
	}

	out["Menu"] = navigation.Menu(out["Authenticated"].(bool)) //nolint:forcetypeassert

	for k, v := range data {
		out[k] = v
	}

	return out
}
