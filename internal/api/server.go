package api

import (
	"net/http"
	"time"

	assistapi "github.com/futig/diabetes-api/internal/api/assist"
	"github.com/futig/diabetes-api/internal/api/docs"
	"github.com/futig/diabetes-api/internal/api/middleware"
	predictionapi "github.com/futig/diabetes-api/internal/api/prediction"
	systemapi "github.com/futig/diabetes-api/internal/api/system"
	"github.com/futig/diabetes-api/internal/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Handlers struct {
	System     *systemapi.Handler
	Prediction *predictionapi.Handler
	Assist     *assistapi.Handler
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(h Handlers, handlerTimeout time.Duration, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)                  // Honour or assign X-Request-ID
	r.Use(middleware.Logger(logger))             // Log requests
	r.Use(middleware.Recoverer)                  // Recover from panics
	r.Use(middleware.CORS())                     // Handle CORS
	r.Use(middleware.Metrics)                    // Prometheus HTTP metrics
	r.Use(chimiddleware.Timeout(handlerTimeout)) // Per-request deadline

	systemapi.RegisterRoutes(r, h.System)
	predictionapi.RegisterRoutes(r, h.Prediction)
	assistapi.RegisterRoutes(r, h.Assist)

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	return r
}
