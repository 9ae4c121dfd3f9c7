// Package stdlogger adapts the global zerolog logger to printf style
// logger interfaces of third party libraries (gorm, go-redis).
package stdlogger

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger forwards printf style calls to the global zerolog logger.
type Logger struct {
	component string
	level     zerolog.Level
}

// Option configures a Logger.
type Option func(*Logger)

// WithComponent adds a component field to every message.
func WithComponent(name string) Option {
	return func(l *Logger) { l.component = name }
}

// WithPrintLevel sets the level used by Printf. Default: info.
func WithPrintLevel(level zerolog.Level) Option {
	return func(l *Logger) { l.level = level }
}

// New creates a new Logger.
func New(opts ...Option) *Logger {
	l := &Logger{level: zerolog.InfoLevel}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

func (l *Logger) emit(level zerolog.Level, format string, args ...any) {
	event := log.WithLevel(level)
	if l.component != "" {
		event = event.Str("component", l.component)
	}

	event.Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) { l.emit(zerolog.DebugLevel, format, args...) }

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) { l.emit(zerolog.InfoLevel, format, args...) }

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, args ...any) { l.emit(zerolog.WarnLevel, format, args...) }

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) { l.emit(zerolog.ErrorLevel, format, args...) }

// Printf logs at the configured print level. Satisfies gorm's logger.Writer.
func (l *Logger) Printf(format string, args ...any) { l.emit(l.level, format, args...) }

// ContextLogger satisfies the go-redis internal logging interface.
type ContextLogger struct {
	*Logger
}

// NewContext wraps a Logger for callers passing a context.
func NewContext(opts ...Option) ContextLogger {
	return ContextLogger{Logger: New(opts...)}
}

// Printf logs at the configured print level.
func (c ContextLogger) Printf(_ context.Context, format string, args ...any) {
	c.emit(c.level, format, args...)
}
