package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/wardstats/platform/pkg/catalog"
	"github.com/wardstats/platform/pkg/common/config"
	"github.com/wardstats/platform/pkg/common/database"
	"github.com/wardstats/platform/pkg/common/kafka"
	"github.com/wardstats/platform/pkg/common/logger"
	"github.com/wardstats/platform/pkg/ingestion"
	"github.com/wardstats/platform/pkg/report"
	"github.com/wardstats/platform/pkg/scoring"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load category catalog")
	}

	ingestRepo := ingestion.NewRepository(db)
	if err := ingestRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate ingestion tables")
	}

	scoreRepo := scoring.NewRepository(db)
	if err := scoreRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate scoring tables")
	}

	reportRepo := report.NewRepository(db, cat.Professors)
	if err := reportRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate report tables")
	}

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := scoreRepo.Seed(seedCtx, cat); err != nil {
		seedCancel()
		logger.Log.WithError(err).Fatal("failed to seed category thresholds")
	}
	seedCancel()

	cache := scoring.NewCache(database.GetRedis(), cfg.ScoreCacheTTL)

	scoreSvc := scoring.NewService(scoreRepo, scoring.WithCache(cache))
	scoreHandler := scoring.NewHTTPHandler(scoreSvc, cfg.DefaultStartMonth, cfg.DefaultMultiplier)

	parser := ingestion.NewWorkbookParser(cat.Professors, cfg.CanonicalSheetName)
	ingestOpts := []ingestion.Option{ingestion.WithCacheInvalidator(cache)}
	if cfg.IngestionKafkaTopic != "" {
		producer := kafka.NewProducer(cfg.IngestionKafkaTopic)
		defer producer.Close()
		ingestOpts = append(ingestOpts, ingestion.WithEventPublisher(producer))
	}
	ingestSvc := ingestion.NewService(parser, ingestRepo, ingestOpts...)
	ingestHandler := ingestion.NewHTTPHandler(ingestSvc, cfg.UploadDir, cfg.MaxUploadBytes)

	reportHandler := report.NewHTTPHandler(reportRepo)

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	ingestHandler.Register(api)
	scoreHandler.Register(api)
	reportHandler.Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Ward Stats Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Ward Stats Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	logger.Log.Info("Ward Stats Service stopped")
}
