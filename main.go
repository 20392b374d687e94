package main

import (
	stdlog "log"
	"net/http"
	"os"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/username/vendingreader/backend/src/config"
	"github.com/username/vendingreader/backend/src/database"
	"github.com/username/vendingreader/backend/src/handlers"
	"github.com/username/vendingreader/backend/src/logger"
	"github.com/username/vendingreader/backend/src/metrics"
	"github.com/username/vendingreader/backend/src/processors"
	"github.com/username/vendingreader/backend/src/security"
	"github.com/username/vendingreader/backend/src/services"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("VendingReader backend server starting...")

	if len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid: must be set and at least 32 characters long.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	if err := database.InitDB(config.Cfg.DatabasePath); err != nil {
		logger.L.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer database.DB.Close()
	if err := database.RunMigrations(database.DB, config.Cfg.MigrationsPath); err != nil {
		logger.L.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	reportCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	authService := security.NewAuthService(config.Cfg.JWTSecret)

	readingService := services.NewReadingService(
		database.DB,
		processors.NewReadingProcessor(),
		processors.NewMachineStatsProcessor(),
		reportCache,
		appMetrics,
		services.Options{
			MaxUploadBytes: config.Cfg.MaxUploadSizeBytes,
			DecodeCacheTTL: config.Cfg.DecodeCacheTTL,
		},
	)

	router := handlers.NewRouter(handlers.RouterConfig{
		ReadingService: readingService,
		AuthService:    authService,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		MaxUploadBytes: config.Cfg.MaxUploadSizeBytes,
		AllowedOrigins: config.Cfg.AllowedOrigins,
		RateLimitRPS:   config.Cfg.RateLimitRPS,
		RateLimitBurst: config.Cfg.RateLimitBurst,
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
