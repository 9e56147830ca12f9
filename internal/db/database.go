package db

import (
	"fmt"

	"github.com/ikkim/marketing-survey/config"
	appLogger "github.com/ikkim/marketing-survey/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize initializes the database connection
func Initialize(cfg *config.DatabaseConfig) error {
	dialector, fields, err := dialectorFor(cfg)
	if err != nil {
		return err
	}

	appLogger.Info("Connecting to database", fields)

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Use silent mode, we'll use our own logger
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	maxIdle, maxOpen := 10, 100
	if cfg.Driver == "sqlite" {
		// sqlite serializes writers; a single connection avoids "database is locked"
		maxIdle, maxOpen = 1, 1
	}
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)

	appLogger.Info("Database connection established successfully", map[string]interface{}{
		"driver":         cfg.Driver,
		"max_idle_conns": maxIdle,
		"max_open_conns": maxOpen,
	})
	return nil
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, map[string]interface{}, error) {
	switch cfg.Driver {
	case "", "postgres":
		return postgres.Open(cfg.DSN()), map[string]interface{}{
			"driver":   "postgres",
			"host":     cfg.Host,
			"port":     cfg.Port,
			"database": cfg.DBName,
			"user":     cfg.User,
		}, nil
	case "sqlite":
		return sqlite.Open(cfg.Path), map[string]interface{}{
			"driver": "sqlite",
			"path":   cfg.Path,
		}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
