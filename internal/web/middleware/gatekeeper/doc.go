// Package gatekeeper provides the route gatekeeper middleware.
//
// The gatekeeper runs before any handler and decides from the request path
// and the presence of the auth_token cookie alone:
//   - protected path without cookie: redirect to the login page, carrying the
//     original path as redirect query parameter
//   - auth-only path (login, register) with cookie: redirect to the landing page
//   - anything else: continue
//
// It never contacts the auth gateway and never checks whether the token is
// still valid. A stale cookie is let through; the route guard re-checks the
// live session state.
//
// Usage:
//
//	app.Use(gatekeeper.New(gatekeeper.Config{
//	    Classifier: routes.Default(),
//	}))
package gatekeeper
