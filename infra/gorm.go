package infra

import (
	"fmt"

	"github.com/HavvokLab/solis-cloud/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DefaultDatabasePath = "database.db"

// NewGormDB opens the sqlite credential store at path and migrates its tables.
func NewGormDB(path string) (*gorm.DB, error) {
	if path == "" {
		path = DefaultDatabasePath
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	if err := db.AutoMigrate(&model.SolisCredential{}); err != nil {
		return nil, fmt.Errorf("failed to migrate %s: %w", path, err)
	}

	return db, nil
}
