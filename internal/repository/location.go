package repository

import (
	"context"
	"pos-dashboard-sync/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LocationRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, location *model.Location) error
	List(ctx context.Context) ([]*model.Location, error)
}

type locationRepoImpl struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepoImpl{
		db: db,
	}
}

// Upsert creates the location on first observation. Existing rows are updated
// in place, except the name, which is only filled in when previously unknown.
// A concurrent first observation of the same location is absorbed by the
// conflict clause instead of failing the slower writer.
func (r *locationRepoImpl) Upsert(ctx context.Context, tx *gorm.DB, location *model.Location) error {
	result := tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(location)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var existing model.Location
	err := tx.WithContext(ctx).
		Where("location_id = ?", location.LocationID).
		First(&existing).Error
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if existing.Name == "" && location.Name != "" {
		updates["name"] = location.Name
	}
	if location.Timezone != "" {
		updates["timezone"] = location.Timezone
	}
	if location.Currency != "" {
		updates["currency"] = location.Currency
	}
	if location.Status != "" {
		updates["status"] = location.Status
	}

	return tx.WithContext(ctx).Model(&model.Location{}).
		Where("location_id = ?", location.LocationID).
		Updates(updates).Error
}

func (r *locationRepoImpl) List(ctx context.Context) ([]*model.Location, error) {
	var locations []*model.Location
	err := r.db.WithContext(ctx).
		Order("name").
		Find(&locations).Error

	if err != nil {
		return nil, err
	}

	return locations, nil
}
