package repository

import (
	"context"
	"pos-dashboard-sync/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebhookEventRepository interface {
	Record(ctx context.Context, eventID, eventType, merchantID string, retryNumber int32) error
}

type webhookEventRepositoryImpl struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepositoryImpl{db: db}
}

// Record is audit-only. The upstream delivers at least once, so a duplicate
// event id is expected and absorbed, never an error.
func (r *webhookEventRepositoryImpl) Record(ctx context.Context, eventID, eventType, merchantID string, retryNumber int32) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.WebhookEvent{
			EventID:     eventID,
			EventType:   eventType,
			MerchantID:  merchantID,
			RetryNumber: retryNumber,
			ProcessedAt: time.Now().UTC(),
		}).Error
}
