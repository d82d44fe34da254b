package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type CategorySales struct {
	Category string `json:"category"`
	Revenue  int64  `json:"revenue"`
	Quantity int64  `json:"quantity"`
}

type AnalyticsRepository interface {
	OrderTotals(ctx context.Context, locationID string, begin, end time.Time) (revenue int64, orders int64, err error)
	SalesByCategory(ctx context.Context, locationID string, begin, end time.Time) ([]CategorySales, error)
}

type analyticsRepoImpl struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepoImpl{
		db: db,
	}
}

func (r *analyticsRepoImpl) OrderTotals(ctx context.Context, locationID string, begin, end time.Time) (int64, int64, error) {
	var row struct {
		Revenue int64
		Orders  int64
	}
	err := r.db.WithContext(ctx).Table("orders").
		Select("COALESCE(SUM(total_amount), 0) AS revenue, COUNT(*) AS orders").
		Where("location_id = ?", locationID).
		Where("state = ?", "COMPLETED").
		Where("ordered_at >= ? AND ordered_at < ?", begin, end).
		Scan(&row).Error

	if err != nil {
		return 0, 0, err
	}

	return row.Revenue, row.Orders, nil
}

func (r *analyticsRepoImpl) SalesByCategory(ctx context.Context, locationID string, begin, end time.Time) ([]CategorySales, error) {
	var rows []CategorySales
	err := r.db.WithContext(ctx).Table("line_items").
		Select("line_items.category AS category, COALESCE(SUM(line_items.total_price), 0) AS revenue, COALESCE(SUM(line_items.quantity), 0) AS quantity").
		Joins("JOIN orders ON orders.id = line_items.order_id").
		Where("orders.location_id = ?", locationID).
		Where("orders.state = ?", "COMPLETED").
		Where("orders.ordered_at >= ? AND orders.ordered_at < ?", begin, end).
		Group("line_items.category").
		Order("revenue DESC").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	return rows, nil
}
