// Package daemon assembles the portal from its configuration and runs it.
package daemon

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/authportal/internal/auth"
	"github.com/GoPowerDNS-Admin/authportal/internal/config"
	"github.com/GoPowerDNS-Admin/authportal/internal/db"
	"github.com/GoPowerDNS-Admin/authportal/internal/db/controller/activity"
	"github.com/GoPowerDNS-Admin/authportal/internal/gateway"
	"github.com/GoPowerDNS-Admin/authportal/internal/storage"
	"github.com/GoPowerDNS-Admin/authportal/internal/web"
)

// ErrNilConfig is returned by New without configuration.
var ErrNilConfig = errors.New("daemon: config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
	storage    fiber.Storage
	db         *gorm.DB
}

// New wires storage, the optional activity journal, the gateway client and
// the web service from cfg.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	d := &Daemon{}

	var err error

	if cfg.DB.Enabled {
		if d.db, err = db.Open(&cfg.DB); err != nil {
			return nil, err
		}

		log.Info().Str("engine", cfg.DB.Engine).Msg("activity journal enabled")
	}

	if d.storage, err = storage.New(ctx, &cfg.Session); err != nil {
		d.close()
		return nil, err
	}

	gw, err := gateway.New(gateway.Config{
		BaseURL:   cfg.Gateway.BaseURL,
		Timeout:   cfg.Gateway.Timeout,
		RateLimit: cfg.Gateway.RateLimit,
		Burst:     cfg.Gateway.Burst,
		UserAgent: cfg.Gateway.UserAgent,
	})
	if err != nil {
		d.close()
		return nil, err
	}

	opts := []auth.Option{auth.WithPhoneRegion(cfg.Gateway.PhoneRegion)}
	if d.db != nil {
		opts = append(opts, auth.WithActivitySink(activity.Sink(d.db)))
	}

	client := auth.NewClient(gw, opts...)

	if d.webService, err = web.New(cfg, client, d.storage, d.db); err != nil {
		d.close()
		return nil, err
	}

	log.Info().
		Str("gateway", gw.BaseURL()).
		Str("session", cfg.Session.Driver).
		Msg("daemon initialized")

	return d, nil
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully and
// releases storage and database connections.
func (d *Daemon) Start() error {
	done := make(chan struct{})

	go func() {
		d.webService.WaitShutdown()
		close(done)
	}()

	if err := d.webService.Start(); err != nil {
		d.close()
		return err
	}

	<-done
	d.close()

	return nil
}

func (d *Daemon) close() {
	if d.storage != nil {
		if err := d.storage.Close(); err != nil {
			log.Error().Err(err).Msg("closing session storage")
		}
	}

	if d.db == nil {
		return
	}

	sqlDB, err := d.db.DB()
	if err != nil {
		log.Error().Err(err).Msg("")
		return
	}

	if err = sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("closing database")
	}
}
