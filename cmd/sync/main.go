package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"pos-dashboard-sync/internal/client"
	"pos-dashboard-sync/internal/config"
	"pos-dashboard-sync/internal/metrics"
	"pos-dashboard-sync/internal/repository"
	"pos-dashboard-sync/internal/service"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// One-shot historical backfill. Safe to re-run: every write is an idempotent
// upsert, so a crashed or repeated run converges to the same replica state.
func main() {
	days := flag.Int("days", 0, "window size in days, overrides SYNC_WINDOW_DAYS")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	windowDays := cfg.Sync.WindowDays
	if *days > 0 {
		windowDays = *days
	}

	db := client.InitMysqlClient(cfg.DatabaseURL)
	posClient := client.NewPosClient(&cfg.Pos)

	locationRepo := repository.NewLocationRepository(db)
	itemRepo := repository.NewItemRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	lineItemRepo := repository.NewLineItemRepository(db)

	m := metrics.NewRegistry()
	upsertService := service.NewUpsertService(db, locationRepo, itemRepo, orderRepo, lineItemRepo, m)
	syncService := service.NewSyncService(db, posClient, locationRepo, upsertService, cfg.Sync, m)

	end := time.Now().UTC()
	window := service.SyncWindow{
		Begin: end.AddDate(0, 0, -windowDays),
		End:   end,
	}

	if err := syncService.Run(context.Background(), window); err != nil {
		log.Printf("sync finished with errors: %v", err)
		os.Exit(1)
	}
}
