package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"pos-dashboard-sync/internal/catalog"
	"pos-dashboard-sync/internal/client"
	"pos-dashboard-sync/internal/config"
	"pos-dashboard-sync/internal/metrics"
	"pos-dashboard-sync/internal/model"
	"pos-dashboard-sync/internal/repository"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order states requested from the provider during historical sync.
var syncedOrderStates = []string{"OPEN", "COMPLETED", "CANCELED"}

type SyncWindow struct {
	Begin time.Time
	End   time.Time
}

type SyncService interface {
	// Run pulls every location's order history for the window into the
	// replica. Locations are processed sequentially: the provider rate limit
	// is shared across all requests, so parallelism would only amplify 429s.
	Run(ctx context.Context, window SyncWindow) error
}

type syncServiceImpl struct {
	db           *gorm.DB
	posClient    client.PosClient
	locationRepo repository.LocationRepository
	upserter     UpsertService
	cfg          config.Sync
	metrics      *metrics.Registry
}

func NewSyncService(
	db *gorm.DB,
	posClient client.PosClient,
	locationRepo repository.LocationRepository,
	upserter UpsertService,
	cfg config.Sync,
	m *metrics.Registry,
) SyncService {
	return &syncServiceImpl{
		db:           db,
		posClient:    posClient,
		locationRepo: locationRepo,
		upserter:     upserter,
		cfg:          cfg,
		metrics:      m,
	}
}

func (s *syncServiceImpl) Run(ctx context.Context, window SyncWindow) error {
	runID := uuid.NewString()
	log.Printf("sync %s: starting, window %s .. %s", runID, window.Begin.Format(time.RFC3339), window.End.Format(time.RFC3339))

	// Fresh snapshot per run: catalog content drifts between runs.
	mapping := catalog.BuildMapping(ctx, s.posClient)

	locations, err := s.posClient.ListLocations(ctx)
	if err != nil {
		return fmt.Errorf("list locations: %w", err)
	}

	var errs []error
	for _, loc := range locations {
		err := s.locationRepo.Upsert(ctx, s.db, &model.Location{
			LocationID: loc.ID,
			Name:       loc.Name,
			Timezone:   loc.Timezone,
			Currency:   loc.Currency,
			Status:     loc.Status,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("location %s: upsert: %w", loc.ID, err))
			continue
		}

		if err := s.syncLocation(ctx, runID, mapping, loc.ID, window); err != nil {
			// isolated: one location aborting never stops the others
			log.Printf("sync %s: location %s aborted: %v", runID, loc.ID, err)
			errs = append(errs, fmt.Errorf("location %s: %w", loc.ID, err))
		}
	}

	log.Printf("sync %s: done, %d/%d locations clean", runID, len(locations)-len(errs), len(locations))
	return errors.Join(errs...)
}

func (s *syncServiceImpl) syncLocation(ctx context.Context, runID string, mapping catalog.Mapping, locationID string, window SyncWindow) error {
	cursor := ""
	pages := 0
	var pageErrs []error
	for {
		page, err := s.fetchPage(ctx, locationID, window, cursor)
		if err != nil {
			pageErrs = append(pageErrs, err)
			return errors.Join(pageErrs...)
		}
		pages++
		s.metrics.SyncPages.Inc()

		// Persist before advancing the cursor: a crash here only costs a
		// reprocess of this page, which the upsert engine absorbs.
		if err := s.upserter.ApplyOrders(ctx, mapping, orderPtrs(page.Orders)); err != nil {
			log.Printf("sync %s: location %s page %d had record errors: %v", runID, locationID, pages, err)
			pageErrs = append(pageErrs, fmt.Errorf("page %d: %w", pages, err))
		}

		if page.Cursor == "" {
			log.Printf("sync %s: location %s done, %d pages", runID, locationID, pages)
			return errors.Join(pageErrs...)
		}
		cursor = page.Cursor
	}
}

// fetchPage issues one search request with a bounded retry loop: rate-limit
// responses back off exponentially with jitter against one budget, transport
// failures against a separate smaller one. Exhausting either budget is fatal
// for this location's run.
func (s *syncServiceImpl) fetchPage(ctx context.Context, locationID string, window SyncWindow, cursor string) (*model.OrderSearchPage, error) {
	rateAttempts := 0
	transportAttempts := 0
	for {
		sleep(s.cfg.PageDelay + jitter(s.cfg.PageDelay))

		page, err := s.posClient.SearchOrders(ctx, &model.OrderSearchRequest{
			LocationID: locationID,
			Begin:      window.Begin,
			End:        window.End,
			States:     syncedOrderStates,
			Limit:      s.cfg.PageSize,
			Cursor:     cursor,
		})
		if err == nil {
			return page, nil
		}

		switch {
		case client.IsRateLimited(err):
			if rateAttempts >= s.cfg.MaxRateRetries {
				return nil, fmt.Errorf("rate limit retries exhausted after %d attempts: %w", rateAttempts, err)
			}
			delay := backoff(s.cfg.BackoffBase, rateAttempts)
			log.Printf("rate limited at location %s, retry %d in %s", locationID, rateAttempts+1, delay)
			s.metrics.SyncRetries.Inc()
			sleep(delay)
			rateAttempts++
		case !client.IsRemoteStatus(err):
			if transportAttempts >= s.cfg.MaxTransportRetries {
				return nil, fmt.Errorf("transport retries exhausted after %d attempts: %w", transportAttempts, err)
			}
			delay := backoff(s.cfg.BackoffBase, transportAttempts)
			log.Printf("transport failure at location %s, retry %d in %s: %v", locationID, transportAttempts+1, delay, err)
			s.metrics.SyncRetries.Inc()
			sleep(delay)
			transportAttempts++
		default:
			return nil, err
		}
	}
}

func orderPtrs(orders []model.PosOrder) []*model.PosOrder {
	ptrs := make([]*model.PosOrder, len(orders))
	for i := range orders {
		ptrs[i] = &orders[i]
	}
	return ptrs
}

// backoff is base × 2^attempt plus independent jitter.
func backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	return base<<uint(attempt) + jitter(base)
}

func jitter(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(base)))
}

func sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
