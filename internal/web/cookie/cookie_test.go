package cookie

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMirror_BuildSet(t *testing.T) {
	tests := []struct {
		name   string
		mirror Mirror
		token  string
		want   string
	}{
		{
			name:   "secure default max age",
			mirror: Mirror{},
			token:  "abc",
			want:   "auth_token=abc; Max-Age=604800; Path=/; Secure; SameSite=Strict",
		},
		{
			name:   "dev mode drops secure",
			mirror: Mirror{DevMode: true},
			token:  "abc",
			want:   "auth_token=abc; Max-Age=604800; Path=/; SameSite=Strict",
		},
		{
			name:   "configured max age",
			mirror: Mirror{MaxAge: 3600},
			token:  "xyz",
			want:   "auth_token=xyz; Max-Age=3600; Path=/; Secure; SameSite=Strict",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mirror.BuildSet(tt.token))
		})
	}
}

func TestMirror_BuildClear(t *testing.T) {
	assert.Equal(t, "auth_token=; Max-Age=0; Path=/; Secure; SameSite=Strict", Mirror{}.BuildClear())
	assert.Equal(t, "auth_token=; Max-Age=0; Path=/; SameSite=Strict", Mirror{DevMode: true}.BuildClear())
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		found  bool
	}{
		{name: "only cookie", header: "auth_token=abc", want: "abc", found: true},
		{name: "among others", header: "sid=1; auth_token=abc; theme=dark", want: "abc", found: true},
		{name: "extra whitespace", header: "  sid=1 ;   auth_token=abc  ", want: "abc", found: true},
		{name: "value containing equals", header: "auth_token=a=b==", want: "a=b==", found: true},
		{name: "first match wins", header: "auth_token=one; auth_token=two", want: "one", found: true},
		{name: "empty value skipped", header: "auth_token=; auth_token=two", want: "two", found: true},
		{name: "missing", header: "sid=1; theme=dark", found: false},
		{name: "empty header", header: "", found: false},
		{name: "malformed pair", header: "auth_token; garbage", found: false},
		{name: "prefix is not a match", header: "auth_token_old=abc", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractToken(tt.header)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractToken_RoundTripsBuildSet(t *testing.T) {
	for _, m := range []Mirror{{}, {DevMode: true}, {MaxAge: 10}} {
		got, ok := ExtractToken(m.BuildSet("abc"))
		require.True(t, ok)
		assert.Equal(t, "abc", got)
	}

	_, ok := ExtractToken(Mirror{}.BuildClear())
	assert.False(t, ok)
}

func TestMirror_Apply(t *testing.T) {
	m := Mirror{DevMode: true}

	app := fiber.New()
	app.Get("/set", func(c *fiber.Ctx) error {
		m.ApplySet(c, "abc")
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/clear", func(c *fiber.Ctx) error {
		m.ApplyClear(c)
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/echo", func(c *fiber.Ctx) error {
		token, ok := FromRequest(c)
		if !ok {
			return c.SendStatus(fiber.StatusNotFound)
		}

		return c.SendString(token)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/set", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{m.BuildSet("abc")}, resp.Header.Values(fiber.HeaderSetCookie))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/clear", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{m.BuildClear()}, resp.Header.Values(fiber.HeaderSetCookie))

	req := httptest.NewRequest(fiber.MethodGet, "/echo", nil)
	req.Header.Set(fiber.HeaderCookie, "sid=1; auth_token=tok")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/echo", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
