package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/photoarc/server/internal/config"
	"github.com/photoarc/server/internal/handlers"
	custommw "github.com/photoarc/server/internal/middleware"
	"github.com/photoarc/server/internal/observability"
	"github.com/photoarc/server/internal/repository"
	"github.com/photoarc/server/internal/services"
)

const serviceVersion = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize telemetry
	ctx := context.Background()
	telemetry, err := observability.Initialize(ctx, observability.NewConfig("photoarc-server", serviceVersion))
	if err != nil {
		log.Printf("Warning: telemetry initialization failed: %v", err)
	}

	// Initialize the photo store
	store, err := repository.NewJSONPhotoStore(cfg.DataPath)
	if err != nil {
		log.Fatalf("Failed to initialize photo store: %v", err)
	}

	// Initialize services
	archiveMetrics, err := observability.NewArchiveMetrics()
	if err != nil {
		log.Printf("Warning: archive metrics unavailable: %v", err)
	}
	exifService := services.NewEXIFService()
	catalogService := services.NewCatalogService(store, exifService, cfg.ImagesPath, archiveMetrics)
	queryService := services.NewQueryService(cfg.Query.DefaultLimit, cfg.Query.MaxLimit)
	statsService := services.NewStatsService()

	// Initialize handlers
	photoHandler := handlers.NewPhotoHandler(store, catalogService, queryService)
	statsHandler := handlers.NewStatsHandler(store, statsService)
	extractHandler := handlers.NewExtractHandler(catalogService)
	dataHandler := handlers.NewDataHandler(store)
	healthHandler := handlers.NewHealthHandler()

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", cfg.Security.APIKeyHeader},
		MaxAge:         300,
	}))
	r.Use(observability.TracingMiddleware())
	if httpMetrics, err := observability.NewHTTPMetrics(); err == nil {
		r.Use(observability.MetricsMiddleware(httpMetrics))
	} else {
		log.Printf("Warning: HTTP metrics unavailable: %v", err)
	}
	r.Use(custommw.APIKeyAuth(cfg.Security.APIKey, cfg.Security.APIKeyHeader))

	// Routes
	r.Get("/health", healthHandler.HealthCheck)
	r.Get("/api/health", healthHandler.HealthCheck)

	r.Route("/api/photos", func(r chi.Router) {
		r.Get("/", photoHandler.List)
		r.Post("/", photoHandler.Create)
		r.Get("/search", photoHandler.Search)
		r.Get("/stats", statsHandler.Stats)
		r.Get("/data", dataHandler.GetData)
		r.Post("/data", dataHandler.ReplaceData)
		r.Post("/extract-metadata", extractHandler.ExtractMetadata)
		r.Post("/extract-all-metadata", extractHandler.ExtractAllMetadata)
		r.Get("/{id}", photoHandler.GetByID)
		r.Put("/{id}", photoHandler.Update)
		r.Delete("/{id}", photoHandler.Delete)
	})

	r.Get("/api/tags", statsHandler.Tags)
	r.Get("/api/people", statsHandler.People)
	r.Get("/api/locations", statsHandler.Locations)

	// Static image bytes, read-only
	r.Method(http.MethodGet, "/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(cfg.ImagesPath))))

	// Create server
	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("PhotoArc Server starting on %s", cfg.ServerAddress)
		log.Printf("Collection path: %s", cfg.DataPath)
		log.Printf("Images path: %s", cfg.ImagesPath)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			log.Printf("Warning: telemetry shutdown failed: %v", err)
		}
	}

	log.Println("Server stopped")
}
