// src/handlers/router.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/username/vendingreader/backend/src/security"
	"github.com/username/vendingreader/backend/src/services"
)

// RouterConfig carries what NewRouter wires into the HTTP API.
type RouterConfig struct {
	ReadingService services.ReadingService
	AuthService    *security.AuthService
	MetricsHandler http.Handler
	MaxUploadBytes int64
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewRouter(cfg RouterConfig) http.Handler {
	decodeHandler := NewDecodeHandler(cfg.ReadingService, cfg.MaxUploadBytes)
	uploadHandler := NewUploadHandler(cfg.ReadingService, cfg.MaxUploadBytes)
	machineHandler := NewMachineHandler(cfg.ReadingService)
	readingHandler := NewReadingHandler(cfg.ReadingService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(ContextualLoggerMiddleware)
	r.Use(SecureHeadersMiddleware)
	r.Use(CORSMiddleware(cfg.AllowedOrigins))
	r.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "VendingReader backend is running"})
	})
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/decode", decodeHandler.HandleDecode)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg.AuthService))

			r.Post("/upload", uploadHandler.HandleUpload)

			r.Get("/machines", machineHandler.HandleListMachines)
			r.Get("/machines/{machineID}", machineHandler.HandleGetMachine)
			r.Delete("/machines/{machineID}", machineHandler.HandleDeleteMachine)
			r.Get("/machines/{machineID}/readings", machineHandler.HandleListReadings)
			r.Post("/machines/{machineID}/readings", machineHandler.HandleAddManualReading)

			r.Get("/readings/{readingID}", readingHandler.HandleGetReading)
			r.Delete("/readings/{readingID}", readingHandler.HandleDeleteReading)
		})
	})

	return r
}
