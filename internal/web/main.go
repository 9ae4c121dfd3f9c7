// Package web assembles the fiber application of the portal.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/authportal/internal/auth"
	"github.com/GoPowerDNS-Admin/authportal/internal/config"
	fiberlogger "github.com/GoPowerDNS-Admin/authportal/internal/logger/adapter/fiber"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/authstate"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/cookie"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler/changepassword"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler/dashboard"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler/login"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler/logout"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler/pages"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler/profile"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler/register"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/handler/verify"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/middleware/gatekeeper"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/middleware/guard"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/routes"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/session"
)

const (
	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes prometheus metrics.
	MetricsPath = "/metrics"

	staticPath = "/static"
)

var (
	// ErrNilConfig is returned by New without config.
	ErrNilConfig = errors.New("config cannot be nil")
	// ErrNilClient is returned by New without auth client.
	ErrNilClient = errors.New("auth client cannot be nil")
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	registry     *authstate.Registry
}

// Start listens on the configured port until the app is shut down.
func (s *Service) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Webserver.Port)

	if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err //nolint:wrapcheck
	}

	return nil
}

// Registry returns the session context registry.
func (s *Service) Registry() *authstate.Registry {
	return s.registry
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown fails the health check for ShutDownTime seconds, then stops the
// http server and the session registry.
func (s *Service) Shutdown() {
	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	s.registry.Close()

	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates the web service. db may be nil when the activity journal is
// disabled.
func New(cfg *config.Config, client *auth.Client, storage fiber.Storage, db *gorm.DB) (*Service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if client == nil {
		return nil, ErrNilClient
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize:        8192,
			AppName:               cfg.Title,
			CaseSensitive:         true,
			Prefork:               false,
			Immutable:             true,
			DisableStartupMessage: !cfg.DevMode,
			Views:                 newTemplateEngine(cfg),
		},
	)

	service := &Service{
		App:          app,
		cfg:          cfg,
		fastShutDown: cfg.DevMode,
		registry:     authstate.NewRegistry(client, authstate.WithIdleTTL(cfg.Session.ContextIdleTTL)),
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	// serve embedded static files
	app.Use(staticPath,
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
				MaxAge:     staticMaxAge(cfg),
			},
		),
	)

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(gatekeeper.New(gatekeeper.Config{
		Classifier:  routes.Classifier{Protected: cfg.Routes.Protected, AuthOnly: cfg.Routes.AuthOnly},
		LoginPath:   cfg.Routes.LoginPath,
		LandingPath: cfg.Routes.LandingPath,
	}))

	store := session.New(storage, session.WithPrefix(cfg.Session.KeyPrefix))

	app.Use(session.ScopeMiddleware(session.ScopeConfig{
		Store:   store,
		DevMode: cfg.DevMode,
		MaxAge:  cfg.Session.ScopeMaxAge,
	}))

	app.Use(guard.Sync(guard.SyncConfig{
		Registry: service.registry,
		Mirror:   cookie.Mirror{DevMode: cfg.DevMode, MaxAge: cfg.Session.CookieMaxAge},
	}))

	env := &handler.Env{
		Cfg:      cfg,
		Registry: service.registry,
		Client:   client,
		Guard: guard.New(guard.Config{
			Registry:  service.registry,
			LoginPath: cfg.Routes.LoginPath,
			InitWait:  cfg.Guard.InitWait,
		}),
		DB: db,
	}

	services := []handler.Service{
		&login.Handler,
		&logout.Handler,
		&register.Handler,
		&verify.Handler,
		&dashboard.Handler,
		&profile.Handler,
		&changepassword.Handler,
		&pages.Handler,
	}

	for _, h := range services {
		if err := h.Init(app, env); err != nil {
			service.registry.Close()
			return nil, err //nolint:wrapcheck
		}
	}

	return service, nil
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

func staticMaxAge(cfg *config.Config) int {
	if cfg.Webserver.CacheEnabled {
		return 3600 //nolint:mnd
	}

	return 0
}

func newTemplateEngine(cfg *config.Config) *html.Engine {
	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		if _, err := os.Stat("./internal/web/templates"); err == nil {
			templateEngine = html.New("./internal/web/templates", ".gohtml")
			templateEngine.ShouldReload = true

			log.Warn().Msg("debug mode enabled: using local filesystem for templates")
		}
	}

	templateEngine.AddFunc("year", func() int {
		return time.Now().Year()
	})

	return templateEngine
}
