package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/forgo/savor/internal/config"
	"github.com/forgo/savor/internal/database"
	"github.com/forgo/savor/internal/model"
	"github.com/forgo/savor/internal/repository"
	"github.com/forgo/savor/internal/service"
	"github.com/forgo/savor/migrations"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var validationErr *model.ValidationError
	switch {
	case errors.Is(err, service.ErrStoreNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrEmptyQuery), errors.As(err, &validationErr):
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Apply embedded schema definitions. DEFINE statements are idempotent,
	// so this is safe on every startup.
	schema, err := migrations.Load()
	if err != nil {
		slog.Error("failed to load schema", slog.String("error", err.Error()))
		os.Exit(1)
	}
	for _, stmt := range schema {
		if err := db.Execute(ctx, stmt, nil); err != nil {
			slog.Error("failed to apply schema", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	slog.Info("schema applied", slog.Int("files", len(schema)))

	// Initialize repositories
	storeRepo := repository.NewStoreRepository(db)

	// Initialize services
	storeService := service.NewStoreService(service.StoreServiceConfig{
		StoreRepo: storeRepo,
	})

	aggregateService := service.NewAggregateService(service.AggregateServiceConfig{
		AggregateRepo: storeRepo,
	})

	discoveryService := service.NewDiscoveryService(service.DiscoveryServiceConfig{
		SearchRepo:    storeRepo,
		AggregateRepo: storeRepo,
	})

	// Read-only JSON surface. Writes go through the frontend-facing
	// gateway, which owns sessions and uploads.
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			http.Error(w, `{"status":"unhealthy"}`, http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /stores", func(w http.ResponseWriter, r *http.Request) {
		stores, err := storeService.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, stores)
	})

	mux.HandleFunc("GET /stores/{slug}", func(w http.ResponseWriter, r *http.Request) {
		store, err := storeService.GetBySlugWithReviews(r.Context(), r.PathValue("slug"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, store)
	})

	mux.HandleFunc("GET /stores/top", func(w http.ResponseWriter, r *http.Request) {
		top, err := aggregateService.TopRatedStores(r.Context(), 0)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, top)
	})

	mux.HandleFunc("GET /tags", func(w http.ResponseWriter, r *http.Request) {
		listing, err := discoveryService.ListByTag(r.Context(), r.URL.Query().Get("tag"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, listing)
	})

	mux.HandleFunc("GET /search", func(w http.ResponseWriter, r *http.Request) {
		results, err := discoveryService.SearchStores(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, results)
	})

	mux.HandleFunc("GET /near", func(w http.ResponseWriter, r *http.Request) {
		lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
		lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		if errLng != nil || errLat != nil {
			http.Error(w, `{"error":"lng and lat are required"}`, http.StatusBadRequest)
			return
		}
		results, err := discoveryService.NearbyStores(r.Context(), lng, lat, 0)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, results)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
