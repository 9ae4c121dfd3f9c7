package profile

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/authportal/internal/auth"
	"github.com/GoPowerDNS-Admin/authportal/internal/db/controller/activity"
	"github.com/GoPowerDNS-Admin/authportal/internal/db/models"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler/handlertest"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler/login"
)

// activityViews renders the number of journal entries handed to the template.
type activityViews struct{ handlertest.NoOpViews }

func (activityViews) Render(w io.Writer, name string, data any, _ ...string) error {
	m, _ := data.(fiber.Map)
	entries, _ := m["Activity"].([]models.Activity)

	_, _ = io.WriteString(w, name)

	for _, e := range entries {
		_, _ = io.WriteString(w, "|"+e.Type)
	}

	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Activity{}))

	return db
}

func TestGet_ListsOwnActivity(t *testing.T) {
	db := newTestDB(t)

	_, err := activity.Record(context.Background(), db, auth.ActivityEvent{
		Type:  auth.ActivityLoginSuccess,
		Email: "someone-else@example.com",
	})
	require.NoError(t, err)

	h := handlertest.New(t,
		handlertest.WithDB(db),
		handlertest.WithActivitySink(activity.Sink(db)),
		handlertest.WithViews(activityViews{}),
	)

	require.NoError(t, (&login.Service{}).Init(h.App, h.Env))
	require.NoError(t, (&Service{}).Init(h.App, h.Env))

	resp := h.PostForm("/login", url.Values{"email": {"nobody@example.com"}, "password": {"wrong"}})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = h.PostForm("/login", url.Values{"email": {handlertest.Email}, "password": {handlertest.Password}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = h.Get(Path)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, TemplateName+"|"+string(auth.ActivityLoginSuccess), handlertest.Body(t, resp))
}

func TestGet_RequiresSession(t *testing.T) {
	h := handlertest.New(t)
	require.NoError(t, (&Service{}).Init(h.App, h.Env))

	resp := h.Get(Path)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?redirect=%2Fprofile", resp.Header.Get("Location"))
}
