package gatekeeper

import (
	"net/url"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/authportal/internal/metrics"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/cookie"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/routes"
)

// Decision is the outcome of the gatekeeper for one request.
type Decision int

const (
	// Allow lets the request continue.
	Allow Decision = iota
	// RedirectLogin sends the visitor to the login page.
	RedirectLogin
	// RedirectLanding sends the visitor to the authenticated landing page.
	RedirectLanding
)

func (d Decision) String() string {
	switch d {
	case RedirectLogin:
		return metrics.DecisionRedirectLogin
	case RedirectLanding:
		return metrics.DecisionRedirectHome
	default:
		return metrics.DecisionAllow
	}
}

// Decide applies the gatekeeper rules to a path and the presence of a token.
func Decide(cl routes.Classifier, p string, hasToken bool) Decision {
	switch cl.Classify(p) {
	case routes.Protected:
		if !hasToken {
			return RedirectLogin
		}
	case routes.AuthOnly:
		if hasToken {
			return RedirectLanding
		}
	case routes.Public:
	}

	return Allow
}

// Config defines the config for the gatekeeper middleware.
type Config struct {
	// Next defines a function to skip this middleware when it returns true.
	Next func(c *fiber.Ctx) bool

	Classifier  routes.Classifier
	LoginPath   string
	LandingPath string

	// SkipPrefixes are never checked.
	SkipPrefixes []string
	// SkipExtensions are file extensions of assets that are never checked.
	SkipExtensions []string
}

// ConfigDefault is the default config.
var ConfigDefault = Config{ //nolint:gochecknoglobals
	Classifier:     routes.Default(),
	LoginPath:      "/login",
	LandingPath:    "/dashboard",
	SkipPrefixes:   []string{"/static", "/metrics", "/checkalive", "/favicon.ico"},
	SkipExtensions: []string{".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp"},
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.Classifier.Protected == nil && cfg.Classifier.AuthOnly == nil {
		cfg.Classifier = ConfigDefault.Classifier
	}

	if cfg.LoginPath == "" {
		cfg.LoginPath = ConfigDefault.LoginPath
	}

	if cfg.LandingPath == "" {
		cfg.LandingPath = ConfigDefault.LandingPath
	}

	if cfg.SkipPrefixes == nil {
		cfg.SkipPrefixes = ConfigDefault.SkipPrefixes
	}

	if cfg.SkipExtensions == nil {
		cfg.SkipExtensions = ConfigDefault.SkipExtensions
	}

	return cfg
}

func (cfg Config) skip(p string) bool {
	for _, prefix := range cfg.SkipPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}

	ext := strings.ToLower(path.Ext(p))
	for _, e := range cfg.SkipExtensions {
		if ext == e {
			return true
		}
	}

	return false
}

// New creates the gatekeeper middleware.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		p := c.Path()
		if cfg.skip(p) {
			return c.Next()
		}

		_, hasToken := cookie.FromRequest(c)
		decision := Decide(cfg.Classifier, p, hasToken)

		metrics.GatekeeperDecisions.WithLabelValues(decision.String()).Inc()

		switch decision {
		case RedirectLogin:
			log.Debug().Str("path", p).Msg("gatekeeper: no session cookie for protected route")
			return c.Redirect(cfg.LoginPath+"?redirect="+url.QueryEscape(p), fiber.StatusFound)
		case RedirectLanding:
			log.Debug().Str("path", p).Msg("gatekeeper: session cookie on auth page")
			return c.Redirect(cfg.LandingPath, fiber.StatusFound)
		case Allow:
		}

		return c.Next()
	}
}
