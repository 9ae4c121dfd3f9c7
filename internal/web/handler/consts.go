package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// ErrNilEnvFatalLogMsg is used if app or env or one of its required members is nil.
	ErrNilEnvFatalLogMsg = "app, env, config, registry or guard is nil"

	// LoadingTemplate is rendered while a session is initializing.
	LoadingTemplate = "loading"
)
