package database

import (
	"fmt"
	"strings"

	"aqarat_backend/pkg/config"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the database named by cfg.URL. URLs starting with "sqlite:"
// or "file:" open an embedded SQLite database, anything else is handed to
// the Postgres driver.
func InitDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Error),
		PrepareStmt: false,
	}

	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(cfg.URL, "sqlite:"):
		dialector = sqlite.Open(strings.TrimPrefix(cfg.URL, "sqlite:"))
	case strings.HasPrefix(cfg.URL, "file:"):
		dialector = sqlite.Open(cfg.URL)
	default:
		dialector = postgres.New(postgres.Config{
			DSN: cfg.URL,
			// Poolers such as PgBouncer in transaction mode reject prepared statements.
			PreferSimpleProtocol: true,
		})
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)

	DB = db
	log.Info().Str("dialect", db.Dialector.Name()).Msg("database connected")
	return db, nil
}

func GetDB() *gorm.DB {
	return DB
}

func MigrateDatabase(db *gorm.DB, models ...interface{}) error {
	for _, model := range models {
		if !db.Migrator().HasTable(model) {
			if err := db.Migrator().CreateTable(model); err != nil {
				return fmt.Errorf("create table for %T: %w", model, err)
			}
			log.Debug().Msgf("created table for %T", model)
			continue
		}
		if err := db.Migrator().AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
		log.Debug().Msgf("updated table for %T", model)
	}
	return nil
}
