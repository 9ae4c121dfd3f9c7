package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool `mapstructure:"enabled"          toml:"enabled"`
	UseConsoleWriter bool `mapstructure:"useConsoleWriter" toml:"useConsoleWriter"`
}

// LogFile implements a file based logger with one rolling file per level group.
type LogFile struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
	Path    string `mapstructure:"path"    toml:"path"`

	AccessLog        string `mapstructure:"access"           toml:"access"`
	AccessMaxSize    int    `mapstructure:"accessMaxSize"    toml:"accessMaxSize"`
	AccessMaxBackups int    `mapstructure:"accessMaxBackups" toml:"accessMaxBackups"`
	AccessMaxAge     int    `mapstructure:"accessMaxAge"     toml:"accessMaxAge"`

	ErrorLog        string `mapstructure:"error"           toml:"error"`
	ErrorMaxSize    int    `mapstructure:"errorMaxSize"    toml:"errorMaxSize"`
	ErrorMaxBackups int    `mapstructure:"errorMaxBackups" toml:"errorMaxBackups"`
	ErrorMaxAge     int    `mapstructure:"errorMaxAge"     toml:"errorMaxAge"`

	InfoLog        string `mapstructure:"info"           toml:"info"`
	InfoMaxSize    int    `mapstructure:"infoMaxSize"    toml:"infoMaxSize"`
	InfoMaxBackups int    `mapstructure:"infoMaxBackups" toml:"infoMaxBackups"`
	InfoMaxAge     int    `mapstructure:"infoMaxAge"     toml:"infoMaxAge"`

	TraceLog        string `mapstructure:"trace"           toml:"trace"`
	TraceMaxSize    int    `mapstructure:"traceMaxSize"    toml:"traceMaxSize"`
	TraceMaxBackups int    `mapstructure:"traceMaxBackups" toml:"traceMaxBackups"`
	TraceMaxAge     int    `mapstructure:"traceMaxAge"     toml:"traceMaxAge"`

	WarnLog        string `mapstructure:"warn"           toml:"warn"`
	WarnMaxSize    int    `mapstructure:"warnMaxSize"    toml:"warnMaxSize"`
	WarnMaxBackups int    `mapstructure:"warnMaxBackups" toml:"warnMaxBackups"`
	WarnMaxAge     int    `mapstructure:"warnMaxAge"     toml:"warnMaxAge"`
}

// Log implements the logger config.
type Log struct {
	LogLevel string `mapstructure:"logLevel" toml:"logLevel"` // trace, debug, info, warn, error.
	LogEnv   string `mapstructure:"logEnv"   toml:"logEnv"`

	// EnableAccessLogToConsole writes the access log to stdout as well.
	// Has no effect while Console.Enabled is false.
	EnableAccessLogToConsole bool `mapstructure:"enableAccessLogToConsole" toml:"enableAccessLogToConsole"`
	ReportCaller             bool `mapstructure:"reportCaller"             toml:"reportCaller"`
	DisableCheckAlive        bool `mapstructure:"disableCheckAlive"        toml:"disableCheckAlive"` // do not log /checkalive calls

	// RedactQuery lists query parameters whose values are masked in the access log.
	RedactQuery []string `mapstructure:"redactQuery" toml:"redactQuery"`

	AppName     string `mapstructure:"appName"     toml:"appName"`
	ServiceName string `mapstructure:"serviceName" toml:"serviceName"`

	// Console used mainly for docker and dev.
	Console Console `mapstructure:"console" toml:"console"`

	// File logging with lumberjack rotation.
	File LogFile `mapstructure:"file" toml:"file"`
}
