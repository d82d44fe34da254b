package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"pos-dashboard-sync/internal/catalog"
	"pos-dashboard-sync/internal/client"
	"pos-dashboard-sync/internal/config"
	"pos-dashboard-sync/internal/metrics"
	"pos-dashboard-sync/internal/repository"
	"pos-dashboard-sync/internal/server"
	"pos-dashboard-sync/internal/service"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db := client.InitMysqlClient(cfg.DatabaseURL)
	posClient := client.NewPosClient(&cfg.Pos)

	locationRepo := repository.NewLocationRepository(db)
	itemRepo := repository.NewItemRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	lineItemRepo := repository.NewLineItemRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	m := metrics.NewRegistry()

	upsertService := service.NewUpsertService(db, locationRepo, itemRepo, orderRepo, lineItemRepo, m)
	webhookService := service.NewWebhookService(
		cfg.Pos, posClient, upsertService, orderRepo, webhookEventRepo,
		func(ctx context.Context) catalog.Mapping {
			return catalog.BuildMapping(ctx, posClient)
		},
		m,
	)
	analyticsService := service.NewAnalyticsService(locationRepo, analyticsRepo)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(webhookService, analyticsService, m, cfg.HTTP.WebhookRate)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
