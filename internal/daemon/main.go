// Package daemon opens the database, prepares its schema and runs the web service.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/inkwell-api/inkwell/internal/config"
	"github.com/inkwell-api/inkwell/internal/db/dsn"
	"github.com/inkwell-api/inkwell/internal/db/models"
	"github.com/inkwell-api/inkwell/internal/web"
)

// ErrConfigNil is returned when no configuration is given.
var ErrConfigNil = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	webService *web.Service
}

// Start serves HTTP until a termination signal completed the graceful shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// DB returns the daemon's database handle.
func (d *Daemon) DB() *gorm.DB {
	return d.db
}

// Open connects to the configured database engine.
func Open(cfg *config.Config) (*gorm.DB, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case config.EngineSQLite:
		dialector = sqlite.Open(dsn.Create(cfg))
	case config.EnginePostgres:
		dialector = postgres.Open(dsn.Create(cfg))
	default:
		dialector = gormmysql.Open(dsn.Create(cfg))
	}

	logLevel := gormlogger.Warn
	if cfg.DB.LogQueries {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect %s database", cfg.DB.GormEngine)
	}

	// every pooled connection to :memory: would be a different database
	if cfg.DB.GormEngine == config.EngineSQLite && (cfg.DB.Path == "" || cfg.DB.Path == ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "failed to access sql pool")
		}

		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate creates or updates the schema of every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	return nil
}

// Prepare opens and migrates the database and seeds the default roles.
func Prepare(cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := seed(db); err != nil {
		return nil, err
	}

	return db, nil
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	db, err := Prepare(cfg)
	if err != nil {
		return nil, err
	}

	log.Info().Str("engine", cfg.DB.GormEngine).Msg("database ready")

	return &Daemon{
		cfg:        cfg,
		db:         db,
		webService: web.New(cfg, db),
	}, nil
}
