package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"pos-dashboard-sync/internal/catalog"
	"pos-dashboard-sync/internal/metrics"
	"pos-dashboard-sync/internal/model"
	"pos-dashboard-sync/internal/repository"
	"strings"

	"gorm.io/gorm"
)

const generatedItemPrefix = "GENERATED_"

type UpsertService interface {
	// ApplyOrders persists a batch of order snapshots. Re-applying the same
	// batch any number of times leaves the replica in the same state. Orders
	// that fail are logged and reported in the joined error; the rest of the
	// batch is still applied.
	ApplyOrders(ctx context.Context, mapping catalog.Mapping, orders []*model.PosOrder) error
}

type upsertServiceImpl struct {
	db           *gorm.DB
	locationRepo repository.LocationRepository
	itemRepo     repository.ItemRepository
	orderRepo    repository.OrderRepository
	lineItemRepo repository.LineItemRepository
	metrics      *metrics.Registry
}

func NewUpsertService(
	db *gorm.DB,
	locationRepo repository.LocationRepository,
	itemRepo repository.ItemRepository,
	orderRepo repository.OrderRepository,
	lineItemRepo repository.LineItemRepository,
	m *metrics.Registry,
) UpsertService {
	return &upsertServiceImpl{
		db:           db,
		locationRepo: locationRepo,
		itemRepo:     itemRepo,
		orderRepo:    orderRepo,
		lineItemRepo: lineItemRepo,
		metrics:      m,
	}
}

func (s *upsertServiceImpl) ApplyOrders(ctx context.Context, mapping catalog.Mapping, orders []*model.PosOrder) error {
	var errs []error
	for _, posOrder := range orders {
		if err := s.applyOrder(ctx, mapping, posOrder); err != nil {
			log.Printf("apply order %s (location %s): %v", posOrder.ID, posOrder.LocationID, err)
			s.metrics.OrdersSkipped.Inc()
			errs = append(errs, fmt.Errorf("order %s: %w", posOrder.ID, err))
			continue
		}
		s.metrics.OrdersUpserted.Inc()
	}
	return errors.Join(errs...)
}

func (s *upsertServiceImpl) applyOrder(ctx context.Context, mapping catalog.Mapping, posOrder *model.PosOrder) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := s.locationRepo.Upsert(ctx, tx, &model.Location{
			LocationID: posOrder.LocationID,
		})
		if err != nil {
			return fmt.Errorf("upsert location: %w", err)
		}

		// Line items reference the order's internal id, so the order write
		// has to land (and be re-read) before they can.
		stored, applied, err := s.orderRepo.Upsert(ctx, tx, &model.Order{
			OrderID:     posOrder.ID,
			LocationID:  posOrder.LocationID,
			State:       posOrder.State,
			TotalAmount: posOrder.Total.Amount,
			Currency:    posOrder.Total.Currency,
			Version:     posOrder.Version,
			Source:      posOrder.Source.Name,
			OrderedAt:   posOrder.CreatedAt.UTC(),
			ClosedAt:    posOrder.ClosedAt,
		})
		if err != nil {
			return fmt.Errorf("upsert order: %w", err)
		}
		if !applied {
			// Stale version: the stored row kept a newer snapshot, so its
			// line items must not be overwritten with the older ones.
			log.Printf("order %s: version %d older than stored %d, skipped", posOrder.ID, posOrder.Version, stored.Version)
			return nil
		}

		for i := range posOrder.LineItems {
			posLine := &posOrder.LineItems[i]
			if posLine.Quantity <= 0 {
				log.Printf("order %s: line item %s has non-positive quantity %d, skipped", posOrder.ID, posLine.UID, posLine.Quantity)
				continue
			}

			itemID, category := s.upsertItem(ctx, tx, mapping, posLine)

			lineItem := &model.LineItem{
				UID:            posLine.UID,
				OrderID:        stored.ID,
				Name:           posLine.Name,
				Quantity:       posLine.Quantity,
				UnitPrice:      posLine.BasePrice.Amount,
				TotalPrice:     posLine.TotalPrice.Amount,
				TaxAmount:      posLine.TotalTax.Amount,
				DiscountAmount: posLine.TotalDiscount.Amount,
				VariationName:  posLine.VariationName,
				Category:       category,
			}
			if itemID != "" {
				lineItem.ItemID = &itemID
			}
			if err := s.lineItemRepo.Upsert(ctx, tx, lineItem); err != nil {
				return fmt.Errorf("upsert line item %s: %w", posLine.UID, err)
			}
		}

		return nil
	})
}

// upsertItem resolves the line item against the catalog snapshot, falling
// back to a deterministic generated key plus name inference when the catalog
// has no match. A failed item write never aborts the order: the line item is
// written unlinked and a later sighting links it.
func (s *upsertServiceImpl) upsertItem(ctx context.Context, tx *gorm.DB, mapping catalog.Mapping, posLine *model.PosLineItem) (itemID, category string) {
	item := &model.Item{Active: true}
	if res, ok := mapping.Resolve(posLine.CatalogObjectID); ok {
		item.ItemID = res.ItemID
		item.Name = res.ItemName
		if item.Name == "" {
			item.Name = posLine.Name
		}
		item.CategoryID = res.CategoryID
		item.Category = catalog.InferCategory(item.Name, res.CategoryName)
	} else {
		item.ItemID = generatedItemID(posLine.Name)
		item.Name = posLine.Name
		item.Category = catalog.InferCategory(posLine.Name, "")
	}

	if err := s.itemRepo.Upsert(ctx, tx, item); err != nil {
		log.Printf("upsert item %q for line %s failed, leaving line unlinked: %v", item.ItemID, posLine.UID, err)
		s.metrics.ItemsSkipped.Inc()
		return "", item.Category
	}

	return item.ItemID, item.Category
}

// generatedItemID derives a stable synthetic key from the display name, for
// line items that carry no catalog reference.
func generatedItemID(name string) string {
	var sb strings.Builder
	lastSep := true
	for _, r := range strings.ToUpper(strings.TrimSpace(name)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			lastSep = false
		} else if !lastSep {
			sb.WriteByte('_')
			lastSep = true
		}
	}
	return generatedItemPrefix + strings.TrimSuffix(sb.String(), "_")
}
