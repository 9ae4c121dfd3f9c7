package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrEmptyGatewayURL error if config gateway.baseURL is empty.
	ErrEmptyGatewayURL = errors.New("toml config gateway.baseURL can not be empty")

	// ErrUnknownSessionDriver error if config session.driver is not supported.
	ErrUnknownSessionDriver = errors.New("toml config session.driver is not supported")

	// ErrMissingConnectionURI error if a networked session driver has no connection uri.
	ErrMissingConnectionURI = errors.New("toml config session.connectionURI can not be empty")

	// ErrUnknownDBEngine error if config db.engine is not supported.
	ErrUnknownDBEngine = errors.New("toml config db.engine is not supported")

	// ErrInvalidRoutePath error if a configured route path is not absolute.
	ErrInvalidRoutePath = errors.New("toml config routes paths must start with /")
)
