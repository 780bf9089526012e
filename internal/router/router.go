package router

import (
	"net/http"

	"product-needs/internal/handler"
	"product-needs/internal/metrics"
	"product-needs/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// A nil m disables request metrics and the /metrics endpoint.
func New(
	productHandler *handler.ProductHandler,
	needHandler *handler.NeedHandler,
	m *metrics.Metrics,
	appName string,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	mux.HandleFunc("POST /api/products", productHandler.Create)
	mux.HandleFunc("PUT /api/products", productHandler.Update)
	mux.HandleFunc("GET /api/products", productHandler.GetAll)
	mux.HandleFunc("GET /api/products/{id}", productHandler.GetByID)
	mux.HandleFunc("DELETE /api/products/{id}", productHandler.Delete)

	mux.HandleFunc("POST /api/needs", needHandler.Create)
	mux.HandleFunc("PUT /api/needs", needHandler.Update)
	mux.HandleFunc("GET /api/needs", needHandler.GetAll)
	mux.HandleFunc("GET /api/needs/{id}", needHandler.GetByID)
	mux.HandleFunc("DELETE /api/needs/{id}", needHandler.Delete)

	// Apply middleware in order: Recovery -> RequestID -> Logging -> Metrics -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(appName)(h)
	if m != nil {
		h = middleware.Metrics(m)(h)
	}
	h = middleware.Logging(logger)(h)
	h = middleware.RequestID(h)
	h = middleware.Recovery(logger)(h)

	return h
}
