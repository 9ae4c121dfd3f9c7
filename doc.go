// Package main provides the entry point of authportal. It serves the login,
// registration and email verification pages of a remote auth gateway with
// fiber, keeps the session token per browser in fiber storage and guards the
// account pages until that token has been verified against the gateway.
package main
