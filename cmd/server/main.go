package main

import (
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/jengzang/timeline-backend-go/internal/api"
	"github.com/jengzang/timeline-backend-go/internal/config"
	"github.com/jengzang/timeline-backend-go/internal/database"
	"github.com/jengzang/timeline-backend-go/internal/handler"
	"github.com/jengzang/timeline-backend-go/internal/logger"
	"github.com/jengzang/timeline-backend-go/internal/metrics"
	"github.com/jengzang/timeline-backend-go/internal/places"
	"github.com/jengzang/timeline-backend-go/internal/repository"
	"github.com/jengzang/timeline-backend-go/internal/service"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		zap.S().Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	db := database.GetDB()
	collector := metrics.NewCollector("timeline")

	tripRepo := repository.NewTripRepository(db)
	segmentRepo := repository.NewSegmentRepository(db)
	placeRepo := repository.NewPlaceRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	placesClient := places.NewHTTPClient(cfg.PlacesAPIBaseURL, cfg.PlacesAPIKey, 15*time.Second)
	placeCache := places.NewCache(placeRepo, placesClient, places.Options{
		RatePerSecond: cfg.LookupRatePerSecond,
		Workers:       cfg.LookupWorkers,
		BatchSize:     cfg.LookupBatchSize,
		RetryCeiling:  cfg.LookupRetryCeiling,
		MaxAge:        time.Duration(cfg.CacheMaxAgeHours) * time.Hour,
	})

	importService := service.NewImportService(segmentRepo, profileRepo)
	detectionService := service.NewDetectionService(tripRepo, segmentRepo, profileRepo, collector, cfg)
	enrichmentService := service.NewEnrichmentService(segmentRepo, profileRepo, placeRepo, placeCache, collector, cfg)
	tripService := service.NewTripService(tripRepo)
	exportService := service.NewExportService(tripRepo, placeRepo)
	segmentService := service.NewSegmentService(segmentRepo)
	placeService := service.NewPlaceService(placeRepo, placeCache, collector)
	profileService := service.NewProfileService(profileRepo)
	statsService := service.NewStatsService(tripRepo, segmentRepo, placeRepo)

	router := api.SetupRouter(cfg, collector, api.Handlers{
		Import:    handler.NewImportHandler(importService),
		Detection: handler.NewDetectionHandler(detectionService),
		Trips:     handler.NewTripHandler(tripService, exportService),
		Segments:  handler.NewSegmentHandler(segmentService),
		Places:    handler.NewPlaceHandler(placeService, enrichmentService, exportService),
		Profile:   handler.NewProfileHandler(profileService),
		Stats:     handler.NewStatsHandler(statsService),
	})

	zap.S().Infof("Server starting on %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		zap.S().Fatalf("Failed to start server: %v", err)
	}
}
