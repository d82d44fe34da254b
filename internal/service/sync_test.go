package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"pos-dashboard-sync/internal/client"
	"pos-dashboard-sync/internal/config"
	"pos-dashboard-sync/internal/metrics"
	"pos-dashboard-sync/internal/model"
	"pos-dashboard-sync/internal/repository"
	"strings"
	"testing"
	"time"
)

func testSyncConfig() config.Sync {
	return config.Sync{
		PageSize:            100,
		PageDelay:           0,
		BackoffBase:         time.Millisecond,
		MaxRateRetries:      3,
		MaxTransportRetries: 1,
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

type searchRequest struct {
	LocationIDs []string `json:"location_ids"`
	Cursor      string   `json:"cursor"`
}

func TestSyncRun_TwoPagesWithRateLimitRetry(t *testing.T) {
	searchCalls := 0
	page2Attempts := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/locations", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"locations": []model.PosLocation{
				{ID: "loc-1", Name: "Downtown", Timezone: "America/New_York", Currency: "USD", Status: "ACTIVE"},
			},
		})
	})
	mux.HandleFunc("/v2/catalog/list", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.CatalogPage{})
	})
	mux.HandleFunc("/v2/orders/search", func(w http.ResponseWriter, r *http.Request) {
		searchCalls++
		var req searchRequest
		json.NewDecoder(r.Body).Decode(&req)

		if req.Cursor == "" {
			writeJSON(w, model.OrderSearchPage{
				Orders: []model.PosOrder{
					*posOrder("ord-1", 1, 550, posLine("li-1", "Latte", 1, 550)),
					*posOrder("ord-2", 1, 400, posLine("li-2", "Bagel", 1, 400)),
					*posOrder("ord-3", 1, 300),
				},
				Cursor: "page-2",
			})
			return
		}

		page2Attempts++
		if page2Attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeJSON(w, model.OrderSearchPage{
			Orders: []model.PosOrder{
				*posOrder("ord-4", 1, 700, posLine("li-4", "Cold Brew", 2, 700)),
				*posOrder("ord-5", 1, 250),
			},
		})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	db := newTestDB(t)
	posClient := client.NewPosClient(&config.Pos{BaseApiURL: srv.URL, AccessToken: "token", APIVersion: "2024-06-04"})
	syncService := NewSyncService(db, posClient, repository.NewLocationRepository(db), newTestUpserter(t, db), testSyncConfig(), metrics.NewRegistry())

	window := SyncWindow{Begin: time.Now().UTC().AddDate(0, 0, -30), End: time.Now().UTC()}
	if err := syncService.Run(context.Background(), window); err != nil {
		t.Fatalf("sync run: %v", err)
	}

	if n := countRows(t, db, &model.Order{}); n != 5 {
		t.Fatalf("expected 5 orders persisted, got %d", n)
	}
	// page 1, page 2 rate limited, page 2 retried
	if searchCalls != 3 {
		t.Fatalf("expected 3 search calls, got %d", searchCalls)
	}

	var location model.Location
	if err := db.Where("location_id = ?", "loc-1").First(&location).Error; err != nil {
		t.Fatalf("location not persisted: %v", err)
	}
	if location.Name != "Downtown" {
		t.Fatalf("location name = %q", location.Name)
	}
}

func TestSyncRun_RerunConvergesToSameState(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/locations", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"locations": []model.PosLocation{{ID: "loc-1", Name: "Downtown", Currency: "USD"}},
		})
	})
	mux.HandleFunc("/v2/catalog/list", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.CatalogPage{})
	})
	mux.HandleFunc("/v2/orders/search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.OrderSearchPage{
			Orders: []model.PosOrder{*posOrder("ord-1", 1, 550, posLine("li-1", "Latte", 1, 550))},
		})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	db := newTestDB(t)
	posClient := client.NewPosClient(&config.Pos{BaseApiURL: srv.URL, AccessToken: "token", APIVersion: "2024-06-04"})
	syncService := NewSyncService(db, posClient, repository.NewLocationRepository(db), newTestUpserter(t, db), testSyncConfig(), metrics.NewRegistry())

	window := SyncWindow{Begin: time.Now().UTC().AddDate(0, 0, -7), End: time.Now().UTC()}
	for i := 0; i < 2; i++ {
		if err := syncService.Run(context.Background(), window); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	if n := countRows(t, db, &model.Order{}); n != 1 {
		t.Fatalf("expected 1 order after rerun, got %d", n)
	}
	if n := countRows(t, db, &model.LineItem{}); n != 1 {
		t.Fatalf("expected 1 line item after rerun, got %d", n)
	}
}

func TestSyncRun_RetryExhaustionIsolatedPerLocation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/locations", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"locations": []model.PosLocation{
				{ID: "loc-throttled", Name: "Airport"},
				{ID: "loc-ok", Name: "Downtown"},
			},
		})
	})
	mux.HandleFunc("/v2/catalog/list", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.CatalogPage{})
	})
	mux.HandleFunc("/v2/orders/search", func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		json.NewDecoder(r.Body).Decode(&req)

		if len(req.LocationIDs) > 0 && req.LocationIDs[0] == "loc-throttled" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		orders := []model.PosOrder{*posOrder("ord-ok", 1, 300)}
		orders[0].LocationID = "loc-ok"
		writeJSON(w, model.OrderSearchPage{Orders: orders})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	db := newTestDB(t)
	posClient := client.NewPosClient(&config.Pos{BaseApiURL: srv.URL, AccessToken: "token", APIVersion: "2024-06-04"})
	syncService := NewSyncService(db, posClient, repository.NewLocationRepository(db), newTestUpserter(t, db), testSyncConfig(), metrics.NewRegistry())

	window := SyncWindow{Begin: time.Now().UTC().AddDate(0, 0, -7), End: time.Now().UTC()}
	err := syncService.Run(context.Background(), window)
	if err == nil {
		t.Fatal("expected an error for the throttled location")
	}
	if !strings.Contains(err.Error(), "loc-throttled") {
		t.Fatalf("error should name the failing location: %v", err)
	}

	// the healthy location still synced
	var order model.Order
	if err := db.Where("order_id = ?", "ord-ok").First(&order).Error; err != nil {
		t.Fatalf("healthy location's order missing: %v", err)
	}
}
