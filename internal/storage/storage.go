// Package storage creates the fiber.Storage backend of the session store.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/gofiber/storage/mysql/v2"
	"github.com/gofiber/storage/postgres/v3"
	"github.com/gofiber/storage/redis/v3"
	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/authportal/internal/config"
	"github.com/GoPowerDNS-Admin/authportal/internal/logger/adapter/stdlogger"
)

const gcInterval = 10 * time.Second

// ErrUnknownDriver is returned for an unsupported session.driver.
var ErrUnknownDriver = errors.New("unknown session storage driver")

// New opens the storage named by cfg.Driver. The gofiber backends panic
// when they can not connect; the panic is returned as error. A redis reset
// only removes keys below cfg.KeyPrefix.
func New(ctx context.Context, cfg *config.Session) (s fiber.Storage, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, errors.Wrap(fmt.Errorf("%v", r), cfg.Driver)
		}
	}()

	switch cfg.Driver {
	case "", config.DriverMemory:
		s = memory.New(memory.Config{GCInterval: gcInterval})
	case config.DriverRedis:
		goredis.SetLogger(stdlogger.NewContext(stdlogger.WithComponent("redis")))

		rs := redis.New(redis.Config{URL: cfg.ConnectionURI})

		switch {
		case !cfg.Reset:
		case cfg.KeyPrefix != "":
			err = resetPrefix(ctx, rs.Conn(), cfg.KeyPrefix)
		default:
			err = rs.Reset()
		}

		if err != nil {
			_ = rs.Close()
			return nil, errors.Wrap(err, "session storage reset")
		}

		s = rs
	case config.DriverMySQL:
		s = mysql.New(mysql.Config{
			ConnectionURI: cfg.ConnectionURI,
			Table:         cfg.Table,
			Reset:         cfg.Reset,
			GCInterval:    gcInterval,
		})
	case config.DriverPostgres:
		s = postgres.New(postgres.Config{
			ConnectionURI: cfg.ConnectionURI,
			Table:         cfg.Table,
			Reset:         cfg.Reset,
			GCInterval:    gcInterval,
		})
	default:
		return nil, errors.Wrap(ErrUnknownDriver, cfg.Driver)
	}

	log.Info().Str("driver", cfg.Driver).Msg("session storage ready")

	return s, nil
}
