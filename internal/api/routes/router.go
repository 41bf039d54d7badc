package routes

import (
	"net/http"

	"github.com/localpulse/localpulse/internal/api/handlers"
	"github.com/localpulse/localpulse/internal/api/middleware"
	"github.com/localpulse/localpulse/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	sessionHandler  *handlers.SessionHandler
	searchHandler   *handlers.SearchHandler
	viewHandler     *handlers.ViewHandler
	hoverHandler    *handlers.HoverHandler
	locationHandler *handlers.LocationHandler
	streamHandler   *handlers.StreamHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
	allowedOrigins  []string
}

// NewRouter creates a new router
func NewRouter(
	sessionHandler *handlers.SessionHandler,
	searchHandler *handlers.SearchHandler,
	viewHandler *handlers.ViewHandler,
	hoverHandler *handlers.HoverHandler,
	locationHandler *handlers.LocationHandler,
	streamHandler *handlers.StreamHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		sessionHandler:  sessionHandler,
		searchHandler:   searchHandler,
		viewHandler:     viewHandler,
		hoverHandler:    hoverHandler,
		locationHandler: locationHandler,
		streamHandler:   streamHandler,
		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// NewRouterForService wires every handler to one page service
func NewRouterForService(service handlers.PageService, cacheMiddleware *middleware.CacheMiddleware, metrics *observability.Metrics) *Router {
	return NewRouter(
		handlers.NewSessionHandler(service),
		handlers.NewSearchHandler(service),
		handlers.NewViewHandler(service),
		handlers.NewHoverHandler(service),
		handlers.NewLocationHandler(service),
		handlers.NewStreamHandler(service),
		cacheMiddleware,
		metrics,
	)
}

// WithAllowedOrigins restricts CORS to the given origins
func (r *Router) WithAllowedOrigins(origins []string) *Router {
	r.allowedOrigins = origins
	return r
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	r.mux.HandleFunc("GET /api/cities", r.sessionHandler.ListCities)

	// Page view lifecycle
	r.mux.HandleFunc("POST /api/sessions", r.sessionHandler.CreateSession)
	r.mux.HandleFunc("GET /api/sessions/{id}", r.sessionHandler.GetSession)
	r.mux.HandleFunc("POST /api/sessions/{id}/browse", r.sessionHandler.Browse)
	r.mux.HandleFunc("POST /api/sessions/{id}/welcome/dismiss", r.sessionHandler.DismissWelcome)

	r.mux.HandleFunc("POST /api/sessions/{id}/search", r.searchHandler.Search)

	// Result panes
	r.mux.HandleFunc("GET /api/sessions/{id}/list", r.viewHandler.GetList)
	r.mux.HandleFunc("GET /api/sessions/{id}/map", r.viewHandler.GetMap)
	r.mux.HandleFunc("GET /api/sessions/{id}/map.png", r.viewHandler.GetStaticMap)

	r.mux.HandleFunc("PUT /api/sessions/{id}/hover", r.hoverHandler.SetHover)
	r.mux.HandleFunc("DELETE /api/sessions/{id}/hover", r.hoverHandler.ClearHover)

	r.mux.HandleFunc("POST /api/sessions/{id}/location", r.locationHandler.ReportLocation)

	// Server-Sent Events for cross-pane sync
	r.mux.HandleFunc("GET /api/sessions/{id}/events", r.streamHandler.StreamEvents)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Compression, ETag and cache headers
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORS(r.allowedOrigins)(handler)

	return handler
}
