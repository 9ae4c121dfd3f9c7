// Package fiber provides the zerolog based access log middleware.
package fiber

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/authportal/internal/logger"
)

const redacted = "REDACTED"

// Config implements fiber middleware struct.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Config of the logger.
	Config logger.Log

	// CacheControlError max-age caching on chain errors.
	CacheControlError string

	// CheckAliveURI for disabling logging of check alive http calls.
	CheckAliveURI string
}

// ConfigDefault is the default config for fiber.
var ConfigDefault = Config{ //nolint:gochecknoglobals
	Next:              nil,
	CacheControlError: "max-age=0",
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.Next == nil {
		cfg.Next = ConfigDefault.Next
	}

	return cfg
}

// New creates a fiber access logging middleware using zerolog.
func New(config ...Config) fiber.Handler {
	var (
		writers    []io.Writer
		cfg        = configDefault(config...)
		once       sync.Once
		errHandler fiber.ErrorHandler
	)

	if cfg.Config.File.Enabled {
		if err := os.MkdirAll(cfg.Config.File.Path, 0o750); err != nil { //nolint:mnd
			log.Error().Err(err).Str("path", cfg.Config.File.Path).Msg("can't create log directory")
		} else {
			f := cfg.Config.File
			writers = append(writers, logger.NewRollingFile(f.Path, f.AccessLog, f.AccessMaxSize, f.AccessMaxAge, f.AccessMaxBackups))
		}
	}

	// console access log needs both flags
	if cfg.Config.Console.Enabled && cfg.Config.EnableAccessLogToConsole {
		if cfg.Config.Console.UseConsoleWriter {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:          os.Stdout,
				NoColor:      false,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{"level"},
			})
		} else {
			writers = append(writers, os.Stdout)
		}
	}

	accessLogger := zerolog.New(
		zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger().
		Level(zerolog.NoLevel)

	return func(ctx *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(ctx) {
			return ctx.Next()
		}

		once.Do(func() {
			errHandler = ctx.App().ErrorHandler
		})

		start := time.Now()

		chainErr := ctx.Next()
		if chainErr != nil {
			if errH := errHandler(ctx, chainErr); errH != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError) //nolint:errcheck // ok here
				// a 500 needs a Cache-Control as well
				ctx.Response().Header.Set(fiber.HeaderCacheControl, cfg.CacheControlError)
			}
		}

		elapsed := time.Since(start).Seconds()
		ctx.Locals("elapsed", elapsed)
		ctx.Response().Header.Set("X-Performance", fmt.Sprintf("%f", elapsed))

		if cfg.Config.DisableCheckAlive && cfg.CheckAliveURI != "" && string(ctx.Request().RequestURI()) == cfg.CheckAliveURI {
			return nil
		}

		// fasthttp normalizes //a//b to /a/b, but the log keeps the raw path
		p := ctx.Path()
		if query := ctx.Request().URI().QueryString(); len(query) > 0 {
			p += "?" + redactQuery(string(query), cfg.Config.RedactQuery)
		}

		event := accessLogger.Log().Str("IP", ctx.IP()).
			Int("status", ctx.Response().StatusCode()).
			Float64("X-Performance", elapsed).
			Str("URI", p).
			Str("method", ctx.Method()).
			Bytes("host", ctx.Request().Host()).
			Str(fiber.HeaderXForwardedFor, ctx.Get(fiber.HeaderXForwardedFor)).
			Str(fiber.HeaderUserAgent, ctx.Get(fiber.HeaderUserAgent)).
			Str(fiber.HeaderOrigin, ctx.Get(fiber.HeaderOrigin)).
			Str(fiber.HeaderReferer, ctx.Get(fiber.HeaderReferer))

		if rid := ctx.GetRespHeader(fiber.HeaderXRequestID); rid != "" {
			event.Str("request_id", rid)
		}

		if chainErr != nil {
			event.Err(chainErr)
		}

		event.Send()

		return nil
	}
}

// redactQuery masks the values of the given parameters. The query is
// returned unchanged when nothing has to be masked.
func redactQuery(raw string, keys []string) string {
	if len(keys) == 0 {
		return raw
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return redacted
	}

	changed := false

	for k := range values {
		if slices.Contains(keys, k) {
			values[k] = []string{redacted}
			changed = true
		}
	}

	if !changed {
		return raw
	}

	return values.Encode()
}
