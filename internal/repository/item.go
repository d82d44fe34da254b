package repository

import (
	"context"
	"pos-dashboard-sync/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, item *model.Item) error
	FindByItemID(ctx context.Context, itemID string) (*model.Item, error)
}

type itemRepoImpl struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepoImpl{
		db: db,
	}
}

// Upsert is last-write-wins at the field level: input order across the two
// delivery paths is not monotonic, and later sightings may correct the name
// or category.
func (r *itemRepoImpl) Upsert(ctx context.Context, tx *gorm.DB, item *model.Item) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "item_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"name":        item.Name,
			"category":    item.Category,
			"category_id": item.CategoryID,
			"active":      item.Active,
			"updated_at":  time.Now().UTC(),
		}),
	}).Create(item).Error
}

func (r *itemRepoImpl) FindByItemID(ctx context.Context, itemID string) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		First(&item).Error

	if err != nil {
		return nil, err
	}

	return &item, nil
}
