package database

import (
	"fmt"

	"coffee-wifi/config"

	"github.com/jmoiron/sqlx"
	"github.com/umakantv/go-utils/db"
	"github.com/umakantv/go-utils/db/migrations"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// DSN returns the sqlite3 data source for path with foreign keys enforced.
func DSN(path string) string {
	return "file:" + path + "?_foreign_keys=on"
}

// InitializeDatabase opens the SQLite database and applies pending migrations.
func InitializeDatabase(cfg *config.Config) (*sqlx.DB, error) {
	dbConn := db.GetDBConnection(db.DatabaseConfig{
		DRIVER: "sqlite3",
		DB:     DSN(cfg.DatabasePath),
	})

	if err := migrations.Migrate(dbConn, cfg.MigrationsDir); err != nil {
		logger.Error("Error while running migration", zap.String("dir", cfg.MigrationsDir), zap.Error(err))
		dbConn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("Database initialized successfully", zap.String("path", cfg.DatabasePath))
	return dbConn, nil
}
