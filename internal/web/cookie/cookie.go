// Package cookie mirrors the access token into the auth_token cookie so that
// the gatekeeper can see whether a session exists without reading the
// session store.
package cookie

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// Name is the cookie carrying the mirrored access token.
	Name = "auth_token"
	// DefaultMaxAge is the lifetime of a freshly set cookie, in seconds (7 days).
	DefaultMaxAge = 604800
)

// Mirror builds and applies auth_token cookies. The zero value produces
// secure cookies with DefaultMaxAge.
type Mirror struct {
	// DevMode drops the Secure attribute for plain-http local development.
	DevMode bool
	// MaxAge overrides DefaultMaxAge when positive.
	MaxAge int
}

// BuildSet returns the Set-Cookie value that stores token.
func (m Mirror) BuildSet(token string) string {
	maxAge := m.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	return m.BuildSetMaxAge(token, maxAge)
}

// BuildSetMaxAge returns the Set-Cookie value that stores token for maxAge seconds.
func (m Mirror) BuildSetMaxAge(token string, maxAge int) string {
	return m.build(token, maxAge)
}

// BuildClear returns the Set-Cookie value that removes the cookie.
func (m Mirror) BuildClear() string {
	return m.build("", 0)
}

func (m Mirror) build(value string, maxAge int) string {
	var b strings.Builder

	b.WriteString(Name)
	b.WriteByte('=')
	b.WriteString(value)
	b.WriteString("; Max-Age=")
	b.WriteString(strconv.Itoa(maxAge))
	b.WriteString("; Path=/")

	if !m.DevMode {
		b.WriteString("; Secure")
	}

	b.WriteString("; SameSite=Strict")

	return b.String()
}

// ExtractToken returns the auth_token value from a raw Cookie header.
// Pairs are split on ';' and at the first '='; pairs with an empty key or
// value are skipped. The first matching pair wins.
func ExtractToken(header string) (string, bool) {
	for pair := range strings.SplitSeq(header, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if key == "" || value == "" {
			continue
		}

		if key == Name {
			return value, true
		}
	}

	return "", false
}

// FromRequest returns the mirrored token sent with the current request.
func FromRequest(c *fiber.Ctx) (string, bool) {
	return ExtractToken(c.Get(fiber.HeaderCookie))
}

// ApplySet adds a Set-Cookie header storing token to the response.
func (m Mirror) ApplySet(c *fiber.Ctx, token string) {
	c.Response().Header.Add(fiber.HeaderSetCookie, m.BuildSet(token))
}

// ApplyClear adds a Set-Cookie header removing the cookie to the response.
func (m Mirror) ApplyClear(c *fiber.Ctx) {
	c.Response().Header.Add(fiber.HeaderSetCookie, m.BuildClear())
}
