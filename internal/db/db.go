// Package db opens the activity journal database.
package db

import (
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoPowerDNS-Admin/authportal/internal/config"
	"github.com/GoPowerDNS-Admin/authportal/internal/db/dsn"
	"github.com/GoPowerDNS-Admin/authportal/internal/db/models"
	"github.com/GoPowerDNS-Admin/authportal/internal/logger/adapter/stdlogger"
)

const slowQueryThreshold = 200 * time.Millisecond

// ErrUnknownEngine is returned for an unsupported db.engine.
var ErrUnknownEngine = errors.New("unknown database engine")

// Open connects to the configured database and migrates the schema.
func Open(cfg *config.DB) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Engine {
	case config.EngineSQLite:
		dialector = sqlite.Open(dsn.SQLite(cfg))
	case config.EngineMySQL:
		dialector = gormmysql.Open(dsn.MySQL(cfg))
	case config.EnginePostgres:
		dialector = postgres.Open(dsn.Postgres(cfg))
	default:
		return nil, errors.Wrap(ErrUnknownEngine, cfg.Engine)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(
			stdlogger.New(stdlogger.WithComponent("gorm"), stdlogger.WithPrintLevel(zerolog.WarnLevel)),
			gormlogger.Config{
				SlowThreshold:             slowQueryThreshold,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if cfg.Engine == config.EngineSQLite {
		// sqlite allows one writer, and every :memory: connection is its own database
		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return nil, errors.Wrap(dbErr, "failed to get sql.DB")
		}

		sqlDB.SetMaxOpenConns(1)
	}

	if err = db.AutoMigrate(models.All()...); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	return db, nil
}
