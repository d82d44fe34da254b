package service

import (
	"context"
	"fmt"
	"pos-dashboard-sync/internal/dto"
	"pos-dashboard-sync/internal/model"
	"pos-dashboard-sync/internal/repository"
	"time"
)

type AnalyticsService interface {
	Locations(ctx context.Context) ([]*model.Location, error)
	Summary(ctx context.Context, locationID string, begin, end time.Time) (*dto.SalesSummaryResponse, error)
}

type analyticsServiceImpl struct {
	locationRepo  repository.LocationRepository
	analyticsRepo repository.AnalyticsRepository
}

func NewAnalyticsService(locationRepo repository.LocationRepository, analyticsRepo repository.AnalyticsRepository) AnalyticsService {
	return &analyticsServiceImpl{
		locationRepo:  locationRepo,
		analyticsRepo: analyticsRepo,
	}
}

func (s *analyticsServiceImpl) Locations(ctx context.Context) ([]*model.Location, error) {
	return s.locationRepo.List(ctx)
}

func (s *analyticsServiceImpl) Summary(ctx context.Context, locationID string, begin, end time.Time) (*dto.SalesSummaryResponse, error) {
	revenue, orders, err := s.analyticsRepo.OrderTotals(ctx, locationID, begin, end)
	if err != nil {
		return nil, fmt.Errorf("order totals: %w", err)
	}

	categories, err := s.analyticsRepo.SalesByCategory(ctx, locationID, begin, end)
	if err != nil {
		return nil, fmt.Errorf("sales by category: %w", err)
	}

	return &dto.SalesSummaryResponse{
		LocationID:   locationID,
		Begin:        begin,
		End:          end,
		TotalRevenue: revenue,
		OrderCount:   orders,
		Categories:   categories,
	}, nil
}
