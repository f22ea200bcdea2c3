package database

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/saintedlittle/hgn-reports/internal/config"
	"github.com/saintedlittle/hgn-reports/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the single-file SQLite database, creating parent directories
// as needed. One open connection: SQLite has a single writer anyway, and the
// engine relies on the pool to serialize access.
func Connect(cfg *config.Config) error {
	if dir := filepath.Dir(cfg.SQLiteFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(cfg.SQLiteFile), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	slog.Info("database connected", "path", cfg.SQLiteFile)
	return nil
}

// Migrate runs AutoMigrate for all tables, idempotently creating the schema
// and its indices.
func Migrate() error {
	return DB.AutoMigrate(
		&models.Report{},
		&models.ReportAnswer{},
		&models.ReportAdmin{},
		&models.SystemLog{},
	)
}

// Reload closes the connection and re-opens it at the configured path. Used
// when a configuration reload changes the database location.
func Reload(cfg *config.Config) error {
	if err := Close(); err != nil {
		slog.Error("database close before reload failed", "error", err)
	}
	if err := Connect(cfg); err != nil {
		return err
	}
	return Migrate()
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

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
