package repository

import (
	"context"
	"pos-dashboard-sync/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LineItemRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, lineItem *model.LineItem) error
	GetByOrderID(ctx context.Context, orderID uint64) ([]*model.LineItem, error)
}

type lineItemRepoImpl struct {
	db *gorm.DB
}

func NewLineItemRepository(db *gorm.DB) LineItemRepository {
	return &lineItemRepoImpl{
		db: db,
	}
}

func (r *lineItemRepoImpl) Upsert(ctx context.Context, tx *gorm.DB, lineItem *model.LineItem) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "uid"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"order_id":        lineItem.OrderID,
			"item_id":         lineItem.ItemID,
			"name":            lineItem.Name,
			"quantity":        lineItem.Quantity,
			"unit_price":      lineItem.UnitPrice,
			"total_price":     lineItem.TotalPrice,
			"tax_amount":      lineItem.TaxAmount,
			"discount_amount": lineItem.DiscountAmount,
			"variation_name":  lineItem.VariationName,
			"category":        lineItem.Category,
			"updated_at":      time.Now().UTC(),
		}),
	}).Create(lineItem).Error
}

func (r *lineItemRepoImpl) GetByOrderID(ctx context.Context, orderID uint64) ([]*model.LineItem, error) {
	var lineItems []*model.LineItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&lineItems).Error

	if err != nil {
		return nil, err
	}

	return lineItems, nil
}
