package client

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/abdulrafay1716/shopflow-automation/internal/config"
	"github.com/abdulrafay1716/shopflow-automation/internal/model"
)

// InitDatabase opens the configured store and migrates every model.
func InitDatabase(cfg config.Database) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.URL)
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(cfg.URL))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// one writer keeps sqlite from returning SQLITE_BUSY under the scheduler
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(model.All()...); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// sqliteDSN turns on foreign key enforcement for every connection the pool
// opens. Without it the OrderItem cascade and set-null rules are ignored.
func sqliteDSN(url string) string {
	if strings.Contains(url, "_fk=") || strings.Contains(url, "_foreign_keys=") {
		return url
	}
	if strings.Contains(url, "?") {
		return url + "&_fk=1"
	}
	return url + "?_fk=1"
}
