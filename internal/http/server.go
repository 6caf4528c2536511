package http

import (
	"net/http"

	"github.com/mauv0809/rift-cache/internal/config"
	"github.com/mauv0809/rift-cache/internal/http/handlers"
	"github.com/mauv0809/rift-cache/internal/metrics"
)

func NewServer(profiles handlers.ProfileService, db handlers.Pinger, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Profiles:       profiles,
		DB:             db,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	// CORS wraps the whole mux so preflight requests never reach method routing.
	server.handler = Chain(server.Router, corsMiddleware)
	return server
}

func (s *Server) routes() {
	// API handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), loggingMiddleware, authMiddleware)
	api := func(h http.Handler) http.Handler {
		return Chain(h, loggingMiddleware, timeoutMiddleware(s.Cfg.Timeouts.Request))
	}
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(s.DB), loggingMiddleware))
	s.Router.Handle("POST /get-user", api(handlers.GetUserHandler(s.Profiles, s.Metrics)))
	s.Router.Handle("POST /update-lcu", api(handlers.UpdateLCUHandler(s.Profiles, s.Metrics)))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
