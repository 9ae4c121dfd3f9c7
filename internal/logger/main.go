// Package logger initializes the global zerolog logger of authportal.
package logger

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelWriter splits log output by level: trace, debug and info, warn,
// error and up. See WriteLevel.
type LevelWriter struct {
	io.Writer
	ErrorWriter io.Writer
	InfoWriter  io.Writer
	TraceWriter io.Writer
	WarnWriter  io.Writer
}

// WriteLevel writes p to the writer responsible for level l.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (n int, err error) {
	var w io.Writer

	switch {
	case l == zerolog.Disabled:
		return 0, nil
	case l == zerolog.TraceLevel:
		w = lw.TraceWriter
	case l == zerolog.WarnLevel:
		w = lw.WarnWriter
	case l > zerolog.WarnLevel: // error, fatal and panic
		w = lw.ErrorWriter
	default: // debug and info
		w = lw.InfoWriter
	}

	if w == nil {
		return len(p), nil
	}

	return w.Write(p) //nolint:wrapcheck
}

// Init configures the global logger. Without any enabled output nothing is logged.
func Init(cfg Log) error {
	logLevel, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("loglevel %s is not supported", cfg.LogLevel))
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	stack := false

	// stack traces of pkg/errors only at trace level
	if logLevel == zerolog.TraceLevel {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
		stack = true
	}

	zerolog.SetGlobalLevel(logLevel)
	zerolog.ErrorHandler = ErrorHandler

	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		if w := newRollingLevelFiles(cfg); w != nil {
			writers = append(writers, w)
		}
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(NewPrometheusHook(cfg.ServiceName)).
		With().
		Timestamp().
		Str("app", cfg.AppName)

	if cfg.LogEnv != "" {
		ctx = ctx.Str("env", cfg.LogEnv)
	}

	switch {
	case cfg.ReportCaller && stack:
		ctx = ctx.Stack()
	case cfg.ReportCaller:
		ctx = ctx.Caller()
	}

	log.Logger = ctx.Logger()

	return nil
}

// NewRollingFile returns a lumberjack writer below dir.
func NewRollingFile(dir, name string, maxSize, maxAge, maxBackups int) io.Writer {
	return &lumberjack.Logger{
		Filename:   path.Join(dir, name),
		MaxSize:    maxSize,
		MaxAge:     maxAge,
		MaxBackups: maxBackups,
		LocalTime:  false,
		Compress:   false,
	}
}

func newRollingLevelFiles(cfg Log) io.Writer {
	f := cfg.File

	if err := os.MkdirAll(f.Path, 0o750); err != nil { //nolint:mnd
		log.Error().Err(err).Str("path", f.Path).Msg("can't create log directory")
		return nil
	}

	return &LevelWriter{
		ErrorWriter: NewRollingFile(f.Path, f.ErrorLog, f.ErrorMaxSize, f.ErrorMaxAge, f.ErrorMaxBackups),
		InfoWriter:  NewRollingFile(f.Path, f.InfoLog, f.InfoMaxSize, f.InfoMaxAge, f.InfoMaxBackups),
		TraceWriter: NewRollingFile(f.Path, f.TraceLog, f.TraceMaxSize, f.TraceMaxAge, f.TraceMaxBackups),
		WarnWriter:  NewRollingFile(f.Path, f.WarnLog, f.WarnMaxSize, f.WarnMaxAge, f.WarnMaxBackups),
	}
}

// NewConsoleWriter returns a writer sending info and debug to stdout and
// everything else to stderr, optionally human readable.
func NewConsoleWriter(cfg Log) io.Writer {
	wrap := func(out io.Writer) io.Writer {
		if !cfg.Console.UseConsoleWriter {
			return out
		}

		return zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    false,
			TimeFormat: zerolog.TimeFieldFormat,
		}
	}

	return &LevelWriter{
		ErrorWriter: wrap(os.Stderr),
		InfoWriter:  wrap(os.Stdout),
		TraceWriter: wrap(os.Stderr),
		WarnWriter:  wrap(os.Stderr),
	}
}
