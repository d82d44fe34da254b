package service

import (
	"pos-dashboard-sync/internal/metrics"
	"pos-dashboard-sync/internal/model"
	"pos-dashboard-sync/internal/repository"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite replica with the full schema. Capped to
// one connection: each sqlite :memory: connection is its own database.
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

func newTestUpserter(t *testing.T, db *gorm.DB) UpsertService {
	t.Helper()
	return NewUpsertService(
		db,
		repository.NewLocationRepository(db),
		repository.NewItemRepository(db),
		repository.NewOrderRepository(db),
		repository.NewLineItemRepository(db),
		metrics.NewRegistry(),
	)
}

func countRows(t *testing.T, db *gorm.DB, entity interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(entity).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return count
}
