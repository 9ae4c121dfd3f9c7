package changepassword

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler/handlertest"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler/login"
)

func TestGet(t *testing.T) {
	h := handlertest.New(t)
	require.NoError(t, (&login.Service{}).Init(h.App, h.Env))
	require.NoError(t, (&Service{}).Init(h.App, h.Env))

	resp := h.Get("/change-password")
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	resp = h.PostForm("/login", url.Values{"email": {handlertest.MustChangeEmail}, "password": {handlertest.Password}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/change-password", resp.Header.Get("Location"))

	resp = h.Get("/change-password")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, TemplateName, handlertest.Body(t, resp))
}
