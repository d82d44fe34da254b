package repository

import (
	"context"
	"errors"
	"pos-dashboard-sync/internal/model"
	"time"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, order *model.Order) (*model.Order, bool, error)
	FindByOrderID(ctx context.Context, orderID string) (*model.Order, error)
	TouchByOrderID(ctx context.Context, orderID string) (bool, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

// Upsert writes the order snapshot keyed by the provider order id and returns
// the stored row, whose internal ID line items reference. The provider version
// counter is monotonic: an incoming version lower than the stored one is a
// stale replay and is skipped, returning the stored row untouched and applied
// false so callers skip the rest of the snapshot too. Equal or higher versions
// overwrite (full snapshots are re-sent, so last write is correct for true
// duplicates).
func (r *orderRepoImpl) Upsert(ctx context.Context, tx *gorm.DB, order *model.Order) (*model.Order, bool, error) {
	var stored model.Order
	applied := true
	err := tx.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Order
		err := tx.Where("order_id = ?", order.OrderID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := tx.Create(order).Error; err != nil {
				return err
			}
			stored = *order
			return nil
		}
		if err != nil {
			return err
		}

		if order.Version < existing.Version {
			stored = existing
			applied = false
			return nil
		}

		updates := map[string]interface{}{
			"location_id":  order.LocationID,
			"state":        order.State,
			"total_amount": order.TotalAmount,
			"currency":     order.Currency,
			"version":      order.Version,
			"source":       order.Source,
			"ordered_at":   order.OrderedAt,
			"closed_at":    order.ClosedAt,
			"updated_at":   time.Now().UTC(),
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("order_id = ?", order.OrderID).First(&stored).Error
	})
	if err != nil {
		return nil, false, err
	}

	return &stored, applied, nil
}

func (r *orderRepoImpl) FindByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

// TouchByOrderID bumps the updated timestamp only; fulfillment events carry no
// state we can map. Returns false when the order is unknown.
func (r *orderRepoImpl) TouchByOrderID(ctx context.Context, orderID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ?", orderID).
		Update("updated_at", time.Now().UTC())

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
