// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/GoPowerDNS-Admin/authportal/internal/config"
)

// MySQL builds the go-sql-driver DSN from the configuration.
func MySQL(dbCfg *config.DB) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.Name,
		dbCfg.Extras,
	)
}

// Postgres builds a postgres:// URL from the configuration. Extras are
// appended as query string.
func Postgres(dbCfg *config.DB) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(dbCfg.User, dbCfg.Password),
		Host:     fmt.Sprintf("%s:%d", dbCfg.Host, dbCfg.Port),
		Path:     "/" + dbCfg.Name,
		RawQuery: strings.TrimPrefix(dbCfg.Extras, "?"),
	}

	return u.String()
}

// SQLite returns the database file, defaulting to an in-memory database.
func SQLite(dbCfg *config.DB) string {
	if dbCfg.Path == "" {
		return ":memory:"
	}

	return dbCfg.Path
}
