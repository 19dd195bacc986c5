package database

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"crmdesk/internal/domain"
)

// Connect opens postgres for postgres:// DSNs and cgo-free sqlite otherwise.
func Connect(dsn string, log logrus.FieldLogger) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	if IsPostgres(dsn) {
		log.Info("connecting to PostgreSQL")
		db, err := gorm.Open(postgres.Open(dsn), cfg)
		if err != nil {
			return nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(25)
			sqlDB.SetMaxIdleConns(5)
			sqlDB.SetConnMaxLifetime(30 * time.Minute)
		}
		return db, nil
	}

	log.WithField("dsn", dsn).Info("using SQLite for local development")
	return OpenSQLite(dsn, cfg)
}

func OpenSQLite(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
}

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Models lists every persisted entity in migration order.
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.Lead{},
		&domain.LeadNote{},
		&domain.Client{},
		&domain.Project{},
		&domain.Requirement{},
		&domain.Feature{},
		&domain.Milestone{},
		&domain.ProjectMember{},
		&domain.Payment{},
		&domain.ActivityLog{},
		&domain.Task{},
		&domain.TaskHistory{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
