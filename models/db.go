package models

import (
	"github.com/gamestore/store-admin/config"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Tables lists every model managed by AutoMigrate.
var Tables = []interface{}{
	&Category{},
	&SystemRequirement{},
	&Game{},
	&Product{},
	&ProductCategory{},
	&License{},
	&Coupon{},
	&User{},
	&UserSession{},
}

// Open connects to the configured database. Postgres goes through lib/pq.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres", "":
		dialector = postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        cfg.ConnString(),
		})
	case "sqlite":
		dialector = sqlite.Open(cfg.ConnString())
	default:
		return nil, errors.Errorf("unsupported database driver %q", cfg.Driver)
	}

	logMode := logger.Warn
	if cfg.Debug {
		logMode = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(Tables...), "migrate")
}
