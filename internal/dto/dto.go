package dto

import (
	"pos-dashboard-sync/internal/repository"
	"time"
)

type WebhookResponse struct {
	Status string `json:"status"`
}

type SalesSummaryResponse struct {
	LocationID   string                     `json:"location_id"`
	Begin        time.Time                  `json:"begin"`
	End          time.Time                  `json:"end"`
	TotalRevenue int64                      `json:"total_revenue"` // minor currency units
	OrderCount   int64                      `json:"order_count"`
	Categories   []repository.CategorySales `json:"categories"`
}
