// Package routes classifies request paths into protected, auth-only and
// public routes.
package routes

import (
	"net/url"
	"strings"
)

// Category is the class of a path.
type Category int

const (
	// Public paths are served without any session check.
	Public Category = iota
	// Protected paths need a session.
	Protected
	// AuthOnly paths (login, register) are only for visitors without a session.
	AuthOnly
)

func (c Category) String() string {
	switch c {
	case Protected:
		return "protected"
	case AuthOnly:
		return "auth-only"
	default:
		return "public"
	}
}

// Default lists.
var (
	DefaultProtected = []string{"/dashboard", "/profile", "/settings", "/admin", "/invoices"} //nolint:gochecknoglobals
	DefaultAuthOnly  = []string{"/login", "/register"}                                      //nolint:gochecknoglobals
)

// Classifier matches paths by prefix against static lists.
type Classifier struct {
	Protected []string
	AuthOnly  []string
}

// Default returns a classifier over the default lists.
func Default() Classifier {
	return Classifier{Protected: DefaultProtected, AuthOnly: DefaultAuthOnly}
}

// Classify returns the category of path. Protected is checked first.
func (cl Classifier) Classify(path string) Category {
	switch {
	case hasAnyPrefix(path, cl.Protected):
		return Protected
	case hasAnyPrefix(path, cl.AuthOnly):
		return AuthOnly
	default:
		return Public
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}

// LoginURL returns loginPath with returnPath attached as the redirect query
// parameter. The parameter is omitted for the root path.
func LoginURL(loginPath, returnPath string) string {
	if returnPath == "" || returnPath == "/" {
		return loginPath
	}

	return loginPath + "?redirect=" + url.QueryEscape(returnPath)
}

// SafeRedirect returns target if it is a local absolute path, else fallback.
func SafeRedirect(target, fallback string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}

	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}

	return target
}
