// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/GoPowerDNS-Admin/authportal/internal/auth"
	"github.com/GoPowerDNS-Admin/authportal/internal/gateway"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/authstate"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/cookie"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/routes"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/session"
)

const (
	// DefaultPath is searched for main.toml when no path is given.
	DefaultPath = "./etc/"

	// EnvConfigJSON holds a JSON document merged over the file config.
	EnvConfigJSON = "AUTHPORTAL_CONFIG_JSON"

	// EnvAPIURL overrides gateway.baseURL.
	EnvAPIURL = "AUTHPORTAL_API_URL"

	// Session drivers.
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"

	// DB engines.
	EngineSQLite   = "sqlite"
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"

	invalidErrMessage = "invalid config"
)

// ReadConfig reads main.toml from path, which is either a directory or the
// file itself, and applies the environment overrides.
func ReadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = DefaultPath
	}

	if filepath.Ext(path) != ".toml" {
		path = filepath.Join(path, "main.toml")
	}

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	if js := os.Getenv(EnvConfigJSON); js != "" {
		v.SetConfigType("json")

		if err := v.MergeConfig(strings.NewReader(js)); err != nil {
			return nil, errors.Wrap(err, "failed to merge "+EnvConfigJSON)
		}
	}

	if apiURL := os.Getenv(EnvAPIURL); apiURL != "" {
		v.Set("gateway.baseURL", apiURL)
	}

	var c Config

	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}

	if err := validate(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "authportal")

	v.SetDefault("log.logLevel", "info")
	v.SetDefault("log.appName", "authportal")
	v.SetDefault("log.serviceName", "web")
	v.SetDefault("log.redactQuery", []string{"token", "email"})
	v.SetDefault("log.console.enabled", true)

	v.SetDefault("webserver.port", 3000) //nolint:mnd
	v.SetDefault("webserver.url", "http://localhost:3000")
	v.SetDefault("webserver.shutDownTime", 5) //nolint:mnd

	v.SetDefault("gateway.baseURL", gateway.DefaultBaseURL)
	v.SetDefault("gateway.timeout", gateway.DefaultTimeout)
	v.SetDefault("gateway.phoneRegion", auth.DefaultPhoneRegion)

	v.SetDefault("session.driver", DriverMemory)
	v.SetDefault("session.table", "authportal_sessions")
	v.SetDefault("session.keyPrefix", session.DefaultPrefix)
	v.SetDefault("session.scopeMaxAge", "720h")
	v.SetDefault("session.contextIdleTTL", authstate.DefaultIdleTTL)
	v.SetDefault("session.cookieMaxAge", cookie.DefaultMaxAge)

	v.SetDefault("routes.protected", routes.DefaultProtected)
	v.SetDefault("routes.authOnly", routes.DefaultAuthOnly)
	v.SetDefault("routes.loginPath", "/login")
	v.SetDefault("routes.landingPath", "/dashboard")
	v.SetDefault("routes.changePasswordPath", "/change-password")

	v.SetDefault("guard.initWait", "2s")

	v.SetDefault("db.engine", EngineSQLite)
	v.SetDefault("db.path", "authportal.db")
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	if err := toml.NewEncoder(&buffer).Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the daemon can not start without and fills
// in zero values.
func validate(c *Config) error {
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if c.Gateway.BaseURL == "" {
		return errors.Wrap(ErrEmptyGatewayURL, invalidErrMessage)
	}

	switch c.Session.Driver {
	case "", DriverMemory:
		c.Session.Driver = DriverMemory
	case DriverRedis, DriverMySQL, DriverPostgres:
		if c.Session.ConnectionURI == "" {
			return errors.Wrap(ErrMissingConnectionURI, c.Session.Driver)
		}
	default:
		return errors.Wrap(ErrUnknownSessionDriver, c.Session.Driver)
	}

	if c.DB.Enabled {
		switch c.DB.Engine {
		case EngineSQLite, EngineMySQL, EnginePostgres:
		default:
			return errors.Wrap(ErrUnknownDBEngine, c.DB.Engine)
		}
	}

	for _, p := range []string{c.Routes.LoginPath, c.Routes.LandingPath, c.Routes.ChangePasswordPath} {
		if p != "" && !strings.HasPrefix(p, "/") {
			return errors.Wrap(ErrInvalidRoutePath, p)
		}
	}

	return nil
}
