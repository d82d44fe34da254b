package repository

import (
	"pos-dashboard-sync/internal/model"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	// each sqlite :memory: connection is its own database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.Location{},
		&model.Item{},
		&model.Order{},
		&model.LineItem{},
		&model.WebhookEvent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}
