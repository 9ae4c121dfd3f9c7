// Package handlertest provides a fiber app with a fake auth gateway for
// handler tests.
package handlertest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/authportal/internal/auth"
	"github.com/GoPowerDNS-Admin/authportal/internal/config"
	"github.com/GoPowerDNS-Admin/authportal/internal/gateway"
	"github.com/GoPowerDNS-Admin/authportal/internal/identity"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/authstate"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/cookie"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/middleware/guard"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/session"
)

// Credentials accepted by the fake gateway.
const (
	Email              = "ada@example.com"
	MustChangeEmail    = "reset@example.com"
	TakenEmail         = "taken@example.com"
	Password           = "secret123"
	Token              = "valid"
	VerificationToken  = "good-token"
	RegisteredMessage  = "Registration successful. Please check your email."
	VerifiedMessage    = "Email verified successfully"
	ResentMessage      = "Verification email sent"
	InvalidCredentials = "Invalid credentials"
)

// User is the account of the fake gateway.
var User = identity.User{ //nolint:gochecknoglobals
	ID:            "u-1",
	FirstName:     "Ada",
	LastName:      "Lovelace",
	Email:         Email,
	EmailVerified: true,
	Status:        identity.StatusActive,
	Roles:         []string{"user"},
}

// NoOpViews renders the template name followed by the Error and Message
// values, so tests can assert what a handler rendered.
type NoOpViews struct{}

// Load implements fiber.Views.
func (NoOpViews) Load() error { return nil }

// Render implements fiber.Views.
func (NoOpViews) Render(w io.Writer, name string, data any, _ ...string) error {
	_, _ = io.WriteString(w, name)

	if m, ok := data.(fiber.Map); ok {
		for _, key := range []string{"Error", "Message"} {
			if v, exists := m[key].(string); exists && v != "" {
				_, _ = io.WriteString(w, "|"+v)
			}
		}
	}

	return nil
}

// Gateway is a fake remote auth gateway.
type Gateway struct {
	mu    sync.Mutex
	calls map[string]int
}

// Calls returns how often path was requested.
func (g *Gateway) Calls(path string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.calls[path]
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]int)
	}
	g.calls[r.URL.Path]++
	g.mu.Unlock()

	fail := func(status int, msg string) {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(identity.MessageResponse{Error: msg})
	}

	switch r.URL.Path {
	case gateway.PathLogin:
		var in identity.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&in)

		if in.Password != Password {
			fail(http.StatusUnauthorized, InvalidCredentials)
			return
		}

		u := User
		u.Email = in.Email
		_ = json.NewEncoder(w).Encode(identity.LoginResponse{
			Token:              Token,
			RefreshToken:       "refresh",
			User:               &u,
			MustChangePassword: in.Email == MustChangeEmail,
		})
	case gateway.PathMe:
		if r.Header.Get("Authorization") != "Bearer "+Token {
			fail(http.StatusUnauthorized, "Unauthorized")
			return
		}

		_ = json.NewEncoder(w).Encode(User)
	case gateway.PathRegister:
		var in identity.RegisterRequest
		_ = json.NewDecoder(r.Body).Decode(&in)

		if in.Email == TakenEmail {
			fail(http.StatusConflict, "Email already registered")
			return
		}

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(identity.MessageResponse{Message: RegisteredMessage})
	case gateway.PathVerify:
		if r.URL.Query().Get("token") != VerificationToken {
			fail(http.StatusBadRequest, "Invalid or expired verification token")
			return
		}

		_ = json.NewEncoder(w).Encode(identity.MessageResponse{Message: VerifiedMessage})
	case gateway.PathResend:
		_ = json.NewEncoder(w).Encode(identity.MessageResponse{Message: ResentMessage})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// Option configures a Harness.
type Option func(*options)

type options struct {
	db    *gorm.DB
	sink  auth.ActivitySink
	views fiber.Views
}

// WithViews replaces NoOpViews.
func WithViews(views fiber.Views) Option {
	return func(o *options) { o.views = views }
}

// WithDB sets the activity journal database.
func WithDB(db *gorm.DB) Option {
	return func(o *options) { o.db = db }
}

// WithActivitySink records auth events.
func WithActivitySink(sink auth.ActivitySink) Option {
	return func(o *options) { o.sink = sink }
}

// Browser sends requests to an app and keeps the cookies it receives.
type Browser struct {
	App *fiber.App

	t   *testing.T
	mu  sync.Mutex
	jar map[string]string
}

// NewBrowser returns a Browser without cookies.
func NewBrowser(t *testing.T, app *fiber.App) *Browser {
	t.Helper()

	return &Browser{App: app, t: t, jar: make(map[string]string)}
}

// Harness is a fiber app wired like the web service, without templates.
type Harness struct {
	*Browser

	Env     *handler.Env
	Store   *session.Store
	Gateway *Gateway
}

// NewGatewayServer starts a fake gateway and returns its base URL.
func NewGatewayServer(t *testing.T) (*Gateway, string) {
	t.Helper()

	gw := &Gateway{}
	srv := httptest.NewServer(gw)
	t.Cleanup(srv.Close)

	return gw, srv.URL
}

// New creates a Harness. Register the handlers under test on h.App.
func New(t *testing.T, opts ...Option) *Harness {
	t.Helper()

	o := &options{views: NoOpViews{}}
	for _, opt := range opts {
		opt(o)
	}

	gw, baseURL := NewGatewayServer(t)

	gwClient, err := gateway.New(gateway.Config{BaseURL: baseURL, Timeout: 2 * time.Second})
	require.NoError(t, err)

	client := auth.NewClient(gwClient, auth.WithActivitySink(o.sink))
	registry := authstate.NewRegistry(client, authstate.WithIdleTTL(0))
	t.Cleanup(registry.Close)

	cfg := &config.Config{
		DevMode: true,
		Title:   "authportal",
		Routes: config.Routes{
			LoginPath:          "/login",
			LandingPath:        "/dashboard",
			ChangePasswordPath: "/change-password",
		},
		Guard: config.Guard{InitWait: 2 * time.Second},
	}

	store := session.New(memory.New())
	mirror := cookie.Mirror{DevMode: true}

	app := fiber.New(fiber.Config{Views: o.views})
	app.Use(session.ScopeMiddleware(session.ScopeConfig{Store: store, DevMode: true}))
	app.Use(guard.Sync(guard.SyncConfig{Registry: registry, Mirror: mirror}))

	return &Harness{
		Browser: NewBrowser(t, app),
		Env: &handler.Env{
			Cfg:      cfg,
			Registry: registry,
			Client:   client,
			Guard: guard.New(guard.Config{
				Registry:  registry,
				LoginPath: cfg.Routes.LoginPath,
				InitWait:  cfg.Guard.InitWait,
			}),
			DB: o.db,
		},
		Store:   store,
		Gateway: gw,
	}
}

// SetCookie adds a cookie to the following requests.
func (h *Browser) SetCookie(name, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.jar[name] = value
}

// Get requests path with the harness cookies.
func (h *Browser) Get(path string) *http.Response {
	h.t.Helper()

	return h.Do(httptest.NewRequest(fiber.MethodGet, path, nil))
}

// PostForm posts form to path with the harness cookies.
func (h *Browser) PostForm(path string, form url.Values) *http.Response {
	h.t.Helper()

	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	return h.Do(req)
}

// Do sends req with the cookies collected so far and stores the returned ones.
func (h *Browser) Do(req *http.Request) *http.Response {
	h.t.Helper()

	h.mu.Lock()
	for name, value := range h.jar {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	h.mu.Unlock()

	resp, err := h.App.Test(req, 5000)
	require.NoError(h.t, err)

	h.mu.Lock()
	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(h.jar, c.Name)
			continue
		}

		h.jar[c.Name] = c.Value
	}
	h.mu.Unlock()

	return resp
}

// Cookie returns the current value of a collected cookie.
func (h *Browser) Cookie(name string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	v, ok := h.jar[name]

	return v, ok
}

// Scope returns the session store of the harness browser.
func (h *Harness) Scope() *session.Scoped {
	h.t.Helper()

	sid, ok := h.Cookie(session.ScopeCookie)
	require.True(h.t, ok, "no browser scope yet")

	return h.Store.Scope(sid)
}

// Body reads and closes the response body.
func Body(t *testing.T, resp *http.Response) string {
	t.Helper()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return string(b)
}
