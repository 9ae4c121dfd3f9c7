package config

import (
	"time"

	"github.com/GoPowerDNS-Admin/authportal/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool       `mapstructure:"devMode"   toml:"devMode"` // enable dev mode for development
	Title     string     `mapstructure:"title"     toml:"title"`
	Log       logger.Log `mapstructure:"log"       toml:"log"`
	Webserver Webserver  `mapstructure:"webserver" toml:"webserver"`
	Gateway   Gateway    `mapstructure:"gateway"   toml:"gateway"`
	Session   Session    `mapstructure:"session"   toml:"session"`
	Routes    Routes     `mapstructure:"routes"    toml:"routes"`
	Guard     Guard      `mapstructure:"guard"     toml:"guard"`
	DB        DB         `mapstructure:"db"        toml:"db"`
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool   `mapstructure:"browseStatic"   toml:"browseStatic"`   // enable static file browsing (for development purposes only)
	CacheEnabled   bool   `mapstructure:"cacheEnabled"   toml:"cacheEnabled"`   // true = enable static cache
	DisableRecover bool   `mapstructure:"disableRecover" toml:"disableRecover"` // disable recover middleware
	Port           int    `mapstructure:"port"           toml:"port"`           // listening port for the webserver
	ShutDownTime   int    `mapstructure:"shutDownTime"   toml:"shutDownTime"`   // wait time for shutdown in seconds
	URL            string `mapstructure:"url"            toml:"url"`            // base url for the webserver
}

// Gateway holds the settings of the remote auth API.
type Gateway struct {
	BaseURL     string        `mapstructure:"baseURL"     toml:"baseURL"`
	Timeout     time.Duration `mapstructure:"timeout"     toml:"timeout"`
	RateLimit   float64       `mapstructure:"rateLimit"   toml:"rateLimit"` // requests per second, 0 = unlimited
	Burst       int           `mapstructure:"burst"       toml:"burst"`
	UserAgent   string        `mapstructure:"userAgent"   toml:"userAgent"`
	PhoneRegion string        `mapstructure:"phoneRegion" toml:"phoneRegion"` // region for phone numbers without country code
}

// Session settings of the server side session store.
type Session struct {
	// Driver is one of memory, redis, mysql, postgres.
	Driver        string `mapstructure:"driver"        toml:"driver"`
	ConnectionURI string `mapstructure:"connectionURI" toml:"connectionURI"`
	Table         string `mapstructure:"table"         toml:"table"`
	KeyPrefix     string `mapstructure:"keyPrefix"     toml:"keyPrefix"`
	Reset         bool   `mapstructure:"reset"         toml:"reset"` // wipe the store on start

	ScopeMaxAge    time.Duration `mapstructure:"scopeMaxAge"    toml:"scopeMaxAge"`    // lifetime of the sid cookie
	ContextIdleTTL time.Duration `mapstructure:"contextIdleTTL" toml:"contextIdleTTL"` // 0 disables eviction
	CookieMaxAge   int           `mapstructure:"cookieMaxAge"   toml:"cookieMaxAge"`   // auth_token cookie, seconds
}

// Routes classifies request paths.
type Routes struct {
	Protected          []string `mapstructure:"protected"          toml:"protected"`
	AuthOnly           []string `mapstructure:"authOnly"           toml:"authOnly"`
	LoginPath          string   `mapstructure:"loginPath"          toml:"loginPath"`
	LandingPath        string   `mapstructure:"landingPath"        toml:"landingPath"`
	ChangePasswordPath string   `mapstructure:"changePasswordPath" toml:"changePasswordPath"`
}

// Guard settings.
type Guard struct {
	InitWait time.Duration `mapstructure:"initWait" toml:"initWait"`
}

// DB holds the settings of the activity journal database.
type DB struct {
	Enabled  bool   `mapstructure:"enabled"  toml:"enabled"`
	Engine   string `mapstructure:"engine"   toml:"engine"` // sqlite, mysql or postgres
	Path     string `mapstructure:"path"     toml:"path"`   // sqlite only
	Host     string `mapstructure:"host"     toml:"host"`
	Port     int    `mapstructure:"port"     toml:"port"`
	User     string `mapstructure:"user"     toml:"user"`
	Password string `mapstructure:"password" toml:"password"`
	Name     string `mapstructure:"name"     toml:"name"`
	Extras   string `mapstructure:"extras"   toml:"extras"`
}
